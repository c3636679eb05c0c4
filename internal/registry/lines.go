package registry

import (
	"context"
	"slices"
	"sort"

	"fixtures/internal/fixtureid"
	"fixtures/internal/store"
	"fixtures/internal/version"
)

// Line summarizes one assembly line: every fixture sharing classification,
// fixture number and unique-parts count.
type Line struct {
	Key      fixtureid.LineKey `json:"key"`
	Versions []string          `json:"versions"`
	Latest   string            `json:"latest,omitempty"`
	Special  []string          `json:"special,omitempty"`
	Records  int               `json:"records"`
}

// Lines groups the fixtures of a classification tuple into assembly lines.
// Empty tuple fields widen the scope the same way ListFiltered does.
func (r *Registry) Lines(ctx context.Context, tuple fixtureid.Tuple) ([]Line, error) {
	fixtures, err := r.store.List(ctx, store.Filter{
		Category:   tuple.Category,
		Series:     tuple.Series,
		ItemNumber: tuple.ItemNumber,
		Operation:  tuple.Operation,
	})
	if err != nil {
		return nil, err
	}

	index := make(map[fixtureid.LineKey]int)
	var lines []Line
	parsed := make(map[fixtureid.LineKey][]version.Version)
	for _, f := range fixtures {
		key := f.LineKey()
		i, ok := index[key]
		if !ok {
			i = len(lines)
			index[key] = i
			lines = append(lines, Line{Key: key})
		}
		line := &lines[i]
		line.Records++

		v, err := version.Parse(f.Version())
		if err != nil {
			return nil, err
		}
		if slices.Contains(line.Versions, v.String()) || slices.Contains(line.Special, v.String()) {
			continue
		}
		if v.IsSpecial {
			line.Special = append(line.Special, v.String())
			continue
		}
		line.Versions = append(line.Versions, v.String())
		parsed[key] = append(parsed[key], v)
	}

	for i := range lines {
		vs := parsed[lines[i].Key]
		sort.SliceStable(vs, func(a, b int) bool { return version.Compare(vs[a], vs[b]) < 0 })
		lines[i].Versions = lines[i].Versions[:0]
		for _, v := range vs {
			lines[i].Versions = append(lines[i].Versions, v.String())
		}
		if latest, ok := version.Latest(vs); ok {
			lines[i].Latest = latest.String()
		}
		sort.Strings(lines[i].Special)
	}
	return lines, nil
}
