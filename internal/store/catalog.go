package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fixtures/internal/fixtureid"
	"fixtures/internal/textutil"
)

// UpsertResult reports what a catalog upsert did with its row.
type UpsertResult int

const (
	UpsertError UpsertResult = iota
	UpsertAdded
	UpsertUpdated
	UpsertSkipped
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertAdded:
		return "added"
	case UpsertUpdated:
		return "updated"
	case UpsertSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// Category is the top classification level (KKK).
type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Key returns the category code.
func (c Category) Key() string { return c.Code }

// Series is the second level (S), scoped to a category.
type Series struct {
	CategoryCode string `json:"category"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

// Key renders the series as KKK.S.
func (s Series) Key() string { return s.CategoryCode + "." + s.Code }

// ItemNumber is the third level (NN), scoped to a category and series.
type ItemNumber struct {
	CategoryCode string `json:"category"`
	SeriesCode   string `json:"series"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

// Key renders the item number as KKK.SNN.
func (i ItemNumber) Key() string { return i.CategoryCode + "." + i.SeriesCode + i.Code }

// Operation is the manufacturing operation (D); it is not scoped.
type Operation struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Key returns the operation code.
func (o Operation) Key() string { return o.Code }

type parentRef struct {
	kind    string
	table   string
	keyCols []string
	keys    []any
}

type catalogRow struct {
	kind    string
	table   string
	keyCols []string
	keys    []any
	name    string
	parents []parentRef
}

// UpsertCategory adds or renames a category.
func (s *Store) UpsertCategory(ctx context.Context, c Category) (UpsertResult, error) {
	if !fixtureid.ValidCategoryCode(c.Code) {
		return UpsertError, fmt.Errorf("%w: category %q must be 2-3 upper-case letters", ErrInvalidCode, c.Code)
	}
	return s.upsertRow(ctx, catalogRow{
		kind:    "category " + c.Key(),
		table:   "categories",
		keyCols: []string{"code"},
		keys:    []any{c.Code},
		name:    c.Name,
	})
}

// UpsertSeries adds or renames a series. The category must exist.
func (s *Store) UpsertSeries(ctx context.Context, sr Series) (UpsertResult, error) {
	if !fixtureid.ValidCategoryCode(sr.CategoryCode) || !fixtureid.ValidSeriesCode(sr.Code) {
		return UpsertError, fmt.Errorf("%w: series %q", ErrInvalidCode, sr.Key())
	}
	return s.upsertRow(ctx, catalogRow{
		kind:    "series " + sr.Key(),
		table:   "series",
		keyCols: []string{"category_code", "code"},
		keys:    []any{sr.CategoryCode, sr.Code},
		name:    sr.Name,
		parents: []parentRef{
			{kind: "category", table: "categories", keyCols: []string{"code"}, keys: []any{sr.CategoryCode}},
		},
	})
}

// UpsertItemNumber adds or renames an item number. The series must exist.
func (s *Store) UpsertItemNumber(ctx context.Context, it ItemNumber) (UpsertResult, error) {
	if !fixtureid.ValidCategoryCode(it.CategoryCode) || !fixtureid.ValidSeriesCode(it.SeriesCode) ||
		!fixtureid.ValidItemCode(it.Code) {
		return UpsertError, fmt.Errorf("%w: item number %q", ErrInvalidCode, it.Key())
	}
	return s.upsertRow(ctx, catalogRow{
		kind:    "item number " + it.Key(),
		table:   "item_numbers",
		keyCols: []string{"category_code", "series_code", "code"},
		keys:    []any{it.CategoryCode, it.SeriesCode, it.Code},
		name:    it.Name,
		parents: []parentRef{
			{kind: "category", table: "categories", keyCols: []string{"code"}, keys: []any{it.CategoryCode}},
			{kind: "series", table: "series", keyCols: []string{"category_code", "code"}, keys: []any{it.CategoryCode, it.SeriesCode}},
		},
	})
}

// UpsertOperation adds or renames an operation.
func (s *Store) UpsertOperation(ctx context.Context, op Operation) (UpsertResult, error) {
	if !fixtureid.ValidOperationCode(op.Code) {
		return UpsertError, fmt.Errorf("%w: operation %q must be one letter or digit", ErrInvalidCode, op.Code)
	}
	return s.upsertRow(ctx, catalogRow{
		kind:    "operation " + op.Key(),
		table:   "operations",
		keyCols: []string{"code"},
		keys:    []any{op.Code},
		name:    op.Name,
	})
}

func (s *Store) upsertRow(ctx context.Context, row catalogRow) (UpsertResult, error) {
	name := textutil.NormalizeName(row.name)
	where := whereClause(row.keyCols)
	result := UpsertError

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, parent := range row.parents {
			exists, err := rowExists(ctx, tx, parent.table, parent.keyCols, parent.keys)
			if err != nil {
				return fmt.Errorf("check %s: %w", parent.kind, err)
			}
			if !exists {
				return fmt.Errorf("%w: %s: %s %s does not exist", ErrReferentialIntegrity, row.kind, parent.kind, joinKeys(parent.keys))
			}
		}

		var current string
		err := tx.QueryRowContext(ctx, "SELECT name FROM "+row.table+" WHERE "+where, row.keys...).Scan(&current)
		now := time.Now().UTC().Format(time.RFC3339Nano)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			cols := append(append([]string{}, row.keyCols...), "name", "updated_at")
			args := append(append([]any{}, row.keys...), name, now)
			query := "INSERT INTO " + row.table + " (" + strings.Join(cols, ", ") + ") VALUES (" + makePlaceholders(len(cols)) + ")"
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert %s: %w", row.kind, classifyConstraint(err))
			}
			result = UpsertAdded
		case err != nil:
			return fmt.Errorf("read %s: %w", row.kind, err)
		case textutil.NormalizeName(current) == name:
			result = UpsertSkipped
		default:
			args := append([]any{name, now}, row.keys...)
			if _, err := tx.ExecContext(ctx, "UPDATE "+row.table+" SET name = ?, updated_at = ? WHERE "+where, args...); err != nil {
				return fmt.Errorf("update %s: %w", row.kind, err)
			}
			result = UpsertUpdated
		}
		return nil
	})
	if err != nil {
		return UpsertError, err
	}
	return result, nil
}

func rowExists(ctx context.Context, tx *sql.Tx, table string, keyCols []string, keys []any) (bool, error) {
	var count int
	query := "SELECT COUNT(1) FROM " + table + " WHERE " + whereClause(keyCols)
	if err := tx.QueryRowContext(ctx, query, keys...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Categories returns every category ordered by code.
func (s *Store) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT code, name FROM categories ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SeriesByCategory returns the series of one category ordered by code.
func (s *Store) SeriesByCategory(ctx context.Context, category string) ([]Series, error) {
	return s.querySeries(ctx, `SELECT category_code, code, name FROM series WHERE category_code = ? ORDER BY code`, category)
}

// AllSeries returns every series ordered by category and code.
func (s *Store) AllSeries(ctx context.Context) ([]Series, error) {
	return s.querySeries(ctx, `SELECT category_code, code, name FROM series ORDER BY category_code, code`)
}

func (s *Store) querySeries(ctx context.Context, query string, args ...any) ([]Series, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []Series
	for rows.Next() {
		var sr Series
		if err := rows.Scan(&sr.CategoryCode, &sr.Code, &sr.Name); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// ItemsByCategoryAndSeries returns the item numbers of one series ordered by code.
func (s *Store) ItemsByCategoryAndSeries(ctx context.Context, category, series string) ([]ItemNumber, error) {
	return s.queryItems(ctx,
		`SELECT category_code, series_code, code, name FROM item_numbers
         WHERE category_code = ? AND series_code = ? ORDER BY code`,
		category, series)
}

// AllItemNumbers returns every item number ordered by category, series and code.
func (s *Store) AllItemNumbers(ctx context.Context) ([]ItemNumber, error) {
	return s.queryItems(ctx,
		`SELECT category_code, series_code, code, name FROM item_numbers
         ORDER BY category_code, series_code, code`)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]ItemNumber, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item numbers: %w", err)
	}
	defer rows.Close()

	var out []ItemNumber
	for rows.Next() {
		var it ItemNumber
		if err := rows.Scan(&it.CategoryCode, &it.SeriesCode, &it.Code, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Operations returns every operation ordered by code.
func (s *Store) Operations(ctx context.Context) ([]Operation, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT code, name FROM operations ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var out []Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.Code, &op.Name); err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// Category fetches one category.
func (s *Store) Category(ctx context.Context, code string) (Category, error) {
	c := Category{Code: code}
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT name FROM categories WHERE code = ?`, code).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, fmt.Errorf("%w: category %s", ErrNotFound, code)
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// SeriesByKey fetches one series.
func (s *Store) SeriesByKey(ctx context.Context, category, code string) (Series, error) {
	sr := Series{CategoryCode: category, Code: code}
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT name FROM series WHERE category_code = ? AND code = ?`, category, code).Scan(&sr.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Series{}, fmt.Errorf("%w: series %s", ErrNotFound, sr.Key())
	}
	if err != nil {
		return Series{}, fmt.Errorf("get series: %w", err)
	}
	return sr, nil
}

// ItemNumberByKey fetches one item number.
func (s *Store) ItemNumberByKey(ctx context.Context, category, series, code string) (ItemNumber, error) {
	it := ItemNumber{CategoryCode: category, SeriesCode: series, Code: code}
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT name FROM item_numbers WHERE category_code = ? AND series_code = ? AND code = ?`,
		category, series, code).Scan(&it.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return ItemNumber{}, fmt.Errorf("%w: item number %s", ErrNotFound, it.Key())
	}
	if err != nil {
		return ItemNumber{}, fmt.Errorf("get item number: %w", err)
	}
	return it, nil
}

// Operation fetches one operation.
func (s *Store) Operation(ctx context.Context, code string) (Operation, error) {
	op := Operation{Code: code}
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT name FROM operations WHERE code = ?`, code).Scan(&op.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Operation{}, fmt.Errorf("%w: operation %s", ErrNotFound, code)
	}
	if err != nil {
		return Operation{}, fmt.Errorf("get operation: %w", err)
	}
	return op, nil
}
