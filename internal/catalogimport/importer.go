package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fixtures/internal/logging"
	"fixtures/internal/store"
)

// Catalog is the store surface the importer writes through.
type Catalog interface {
	UpsertCategory(ctx context.Context, c store.Category) (store.UpsertResult, error)
	UpsertSeries(ctx context.Context, s store.Series) (store.UpsertResult, error)
	UpsertItemNumber(ctx context.Context, it store.ItemNumber) (store.UpsertResult, error)
	UpsertOperation(ctx context.Context, op store.Operation) (store.UpsertResult, error)
	Categories(ctx context.Context) ([]store.Category, error)
	AllSeries(ctx context.Context) ([]store.Series, error)
	AllItemNumbers(ctx context.Context) ([]store.ItemNumber, error)
	Operations(ctx context.Context) ([]store.Operation, error)
}

// File mirrors the YAML layout.
type File struct {
	Categories []CategoryRow  `yaml:"categories"`
	Series     []SeriesRow    `yaml:"series"`
	Items      []ItemRow      `yaml:"items"`
	Operations []OperationRow `yaml:"operations"`
}

type CategoryRow struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type SeriesRow struct {
	Category string `yaml:"category"`
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
}

type ItemRow struct {
	Category string `yaml:"category"`
	Series   string `yaml:"series"`
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
}

type OperationRow struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// SheetReport counts outcomes for one list of the file.
type SheetReport struct {
	Added    int      `json:"added"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   int      `json:"errors"`
	Failures []string `json:"failures,omitempty"`
	// Missing lists store keys the file does not mention.
	Missing []string `json:"missing,omitempty"`
}

func (s *SheetReport) record(key string, result store.UpsertResult, err error) {
	switch result {
	case store.UpsertAdded:
		s.Added++
	case store.UpsertUpdated:
		s.Updated++
	case store.UpsertSkipped:
		s.Skipped++
	default:
		s.Errors++
		if err != nil {
			s.Failures = append(s.Failures, fmt.Sprintf("%s: %v", key, err))
		}
	}
}

// Report summarizes one import run.
type Report struct {
	RunID      string      `json:"run_id"`
	Source     string      `json:"source,omitempty"`
	Categories SheetReport `json:"categories"`
	Series     SheetReport `json:"series"`
	Items      SheetReport `json:"items"`
	Operations SheetReport `json:"operations"`
}

// Errors returns the total failed rows across all lists.
func (r *Report) Errors() int {
	return r.Categories.Errors + r.Series.Errors + r.Items.Errors + r.Operations.Errors
}

// Importer applies catalog files to a store.
type Importer struct {
	catalog Catalog
	logger  *slog.Logger
}

// New constructs an importer.
func New(catalog Catalog, logger *slog.Logger) *Importer {
	return &Importer{catalog: catalog, logger: logging.NewComponentLogger(logger, "catalog-import")}
}

// ImportFile reads and applies the YAML file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	report, err := im.Import(ctx, f)
	if report != nil {
		report.Source = path
	}
	return report, err
}

// Decode parses a catalog file. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return file, nil
}

// Import applies the catalog read from r. Row failures are reported, not
// returned; the error covers unreadable input and store lookups.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	file, err := Decode(r)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	ctx = logging.WithImportID(ctx, report.RunID)
	logger := logging.WithContext(ctx, im.logger)
	logger.Info("catalog import started",
		logging.Int("categories", len(file.Categories)),
		logging.Int("series", len(file.Series)),
		logging.Int("items", len(file.Items)),
		logging.Int("operations", len(file.Operations)),
	)

	seen := newKeySet()
	im.importCategories(ctx, logger, file.Categories, &report.Categories, seen)
	im.importSeries(ctx, logger, file.Series, &report.Series, seen)
	im.importItems(ctx, logger, file.Items, &report.Items, seen)
	im.importOperations(ctx, logger, file.Operations, &report.Operations, seen)

	if err := im.reconcile(ctx, report, seen); err != nil {
		return report, err
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "catalog_import_summary"),
		logging.Int("errors", report.Errors()),
	}
	for _, sheet := range []struct {
		name string
		s    SheetReport
	}{
		{"categories", report.Categories},
		{"series", report.Series},
		{"items", report.Items},
		{"operations", report.Operations},
	} {
		attrs = append(attrs, slog.Group(sheet.name,
			"added", sheet.s.Added,
			"updated", sheet.s.Updated,
			"skipped", sheet.s.Skipped,
			"errors", sheet.s.Errors,
			"missing", len(sheet.s.Missing),
		))
	}
	if report.Errors() > 0 {
		logging.WarnWithContext(logger, "catalog import finished with errors", "catalog_import",
			append(attrs,
				logging.String(logging.FieldErrorHint, "fix the listed rows and import again"),
				logging.String(logging.FieldImpact, "failed rows were not written"),
			)...,
		)
	} else {
		logger.Info("catalog import finished", logging.Args(attrs...)...)
	}
	return report, nil
}

func code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (im *Importer) importCategories(ctx context.Context, logger *slog.Logger, rows []CategoryRow, sheet *SheetReport, seen keySet) {
	for _, row := range rows {
		c := store.Category{Code: code(row.Code), Name: row.Name}
		if c.Code == "" || strings.TrimSpace(c.Name) == "" {
			sheet.Skipped++
			continue
		}
		seen.categories[c.Key()] = true
		result, err := im.catalog.UpsertCategory(ctx, c)
		sheet.record(c.Key(), result, err)
		logger.Debug("category row", logging.String("key", c.Key()), logging.String("result", result.String()))
	}
}

func (im *Importer) importSeries(ctx context.Context, logger *slog.Logger, rows []SeriesRow, sheet *SheetReport, seen keySet) {
	for _, row := range rows {
		sr := store.Series{CategoryCode: code(row.Category), Code: code(row.Code), Name: row.Name}
		if sr.CategoryCode == "" || sr.Code == "" || strings.TrimSpace(sr.Name) == "" {
			sheet.Skipped++
			continue
		}
		seen.series[sr.Key()] = true
		result, err := im.catalog.UpsertSeries(ctx, sr)
		sheet.record(sr.Key(), result, err)
		logger.Debug("series row", logging.String("key", sr.Key()), logging.String("result", result.String()))
	}
}

func (im *Importer) importItems(ctx context.Context, logger *slog.Logger, rows []ItemRow, sheet *SheetReport, seen keySet) {
	for _, row := range rows {
		it := store.ItemNumber{
			CategoryCode: code(row.Category),
			SeriesCode:   code(row.Series),
			Code:         code(row.Code),
			Name:         row.Name,
		}
		if it.CategoryCode == "" || it.SeriesCode == "" || it.Code == "" || strings.TrimSpace(it.Name) == "" {
			sheet.Skipped++
			continue
		}
		seen.items[it.Key()] = true
		result, err := im.catalog.UpsertItemNumber(ctx, it)
		sheet.record(it.Key(), result, err)
		logger.Debug("item row", logging.String("key", it.Key()), logging.String("result", result.String()))
	}
}

func (im *Importer) importOperations(ctx context.Context, logger *slog.Logger, rows []OperationRow, sheet *SheetReport, seen keySet) {
	for _, row := range rows {
		op := store.Operation{Code: code(row.Code), Name: row.Name}
		if op.Code == "" || strings.TrimSpace(op.Name) == "" {
			sheet.Skipped++
			continue
		}
		seen.operations[op.Key()] = true
		result, err := im.catalog.UpsertOperation(ctx, op)
		sheet.record(op.Key(), result, err)
		logger.Debug("operation row", logging.String("key", op.Key()), logging.String("result", result.String()))
	}
}

type keySet struct {
	categories map[string]bool
	series     map[string]bool
	items      map[string]bool
	operations map[string]bool
}

func newKeySet() keySet {
	return keySet{
		categories: map[string]bool{},
		series:     map[string]bool{},
		items:      map[string]bool{},
		operations: map[string]bool{},
	}
}

// reconcile fills each sheet's Missing list with store keys the file did
// not mention.
func (im *Importer) reconcile(ctx context.Context, report *Report, seen keySet) error {
	categories, err := im.catalog.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range categories {
		if !seen.categories[c.Key()] {
			report.Categories.Missing = append(report.Categories.Missing, c.Key())
		}
	}

	series, err := im.catalog.AllSeries(ctx)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}
	for _, s := range series {
		if !seen.series[s.Key()] {
			report.Series.Missing = append(report.Series.Missing, s.Key())
		}
	}

	items, err := im.catalog.AllItemNumbers(ctx)
	if err != nil {
		return fmt.Errorf("list item numbers: %w", err)
	}
	for _, it := range items {
		if !seen.items[it.Key()] {
			report.Items.Missing = append(report.Items.Missing, it.Key())
		}
	}

	operations, err := im.catalog.Operations(ctx)
	if err != nil {
		return fmt.Errorf("list operations: %w", err)
	}
	for _, op := range operations {
		if !seen.operations[op.Key()] {
			report.Operations.Missing = append(report.Operations.Missing, op.Key())
		}
	}

	for _, missing := range [][]string{report.Categories.Missing, report.Series.Missing, report.Items.Missing, report.Operations.Missing} {
		sort.Strings(missing)
	}
	return nil
}
