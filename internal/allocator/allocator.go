// Package allocator assigns fixture numbers within a classification tuple.
//
// Numbers are handed out gap-first: the smallest positive value not in use
// is returned, so numbers freed by deleting a fixture are reused before the
// sequence grows.
package allocator

import (
	"errors"
	"fmt"
	"sort"

	"fixtures/internal/radix"
)

// Width is the number of radix symbols in a fixture number.
const Width = 2

// ErrExhausted is returned when every Width-symbol number is taken.
var ErrExhausted = errors.New("fixture numbers exhausted")

// Next returns the smallest unused positive fixture number given the
// numbers already assigned in the scope. Duplicates are tolerated.
func Next(existing []string) (string, error) {
	values := make([]int64, 0, len(existing))
	for _, raw := range existing {
		n, err := radix.Decode(raw)
		if err != nil {
			return "", fmt.Errorf("existing fixture number %q: %w", raw, err)
		}
		values = append(values, n)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	next := int64(1)
	for _, v := range values {
		if v < next {
			continue
		}
		if v > next {
			break
		}
		next++
	}

	if next > radix.MaxForWidth(Width) {
		return "", fmt.Errorf("%w: all %d numbers in use", ErrExhausted, radix.MaxForWidth(Width))
	}
	return radix.EncodePadded(next, Width)
}
