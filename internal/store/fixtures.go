package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fixtures/internal/fixtureid"
)

// Fixture is one registered fixture identifier. The catalog names are filled
// in by reads and left empty when the catalog row is missing.
type Fixture struct {
	ID int64 `json:"id"`
	fixtureid.Fields
	FullID    string    `json:"full_id"`
	BasePath  string    `json:"base_path"`
	CreatedAt time.Time `json:"created_at"`

	CategoryName  string `json:"category_name,omitempty"`
	SeriesName    string `json:"series_name,omitempty"`
	ItemName      string `json:"item_name,omitempty"`
	OperationName string `json:"operation_name,omitempty"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Category   string
	Series     string
	ItemNumber string
	Operation  string
}

// InsertHook runs inside the insert transaction once the key checks have
// passed. line holds the existing records of the new fixture's assembly line.
// Returning an error aborts the insert. The hook may run more than once if
// SQLite reports the database busy.
type InsertHook func(line []*Fixture) error

const fixtureSelect = `SELECT f.id, f.category, f.series, f.item_number, f.operation,
       f.fixture_number, f.unique_parts, f.part_in_assembly, f.part_quantity,
       f.assembly_version, f.intermediate_version, f.base_path, f.full_id, f.created_at,
       c.name, s.name, i.name, o.name
  FROM fixtures f
  LEFT JOIN categories c ON c.code = f.category
  LEFT JOIN series s ON s.category_code = f.category AND s.code = f.series
  LEFT JOIN item_numbers i ON i.category_code = f.category AND i.series_code = f.series AND i.code = f.item_number
  LEFT JOIN operations o ON o.code = f.operation`

const fixtureOrder = ` ORDER BY f.category, f.series, f.item_number, f.operation,
       f.fixture_number, f.unique_parts, f.assembly_version, f.intermediate_version, f.id`

func scanFixture(scanner interface{ Scan(dest ...any) error }) (*Fixture, error) {
	var (
		f             Fixture
		intermediate  sql.NullString
		createdRaw    string
		categoryName  sql.NullString
		seriesName    sql.NullString
		itemName      sql.NullString
		operationName sql.NullString
	)
	if err := scanner.Scan(
		&f.ID,
		&f.Category,
		&f.Series,
		&f.ItemNumber,
		&f.Operation,
		&f.FixtureNumber,
		&f.UniqueParts,
		&f.PartInAssembly,
		&f.PartQuantity,
		&f.AssemblyVersion,
		&intermediate,
		&f.BasePath,
		&f.FullID,
		&createdRaw,
		&categoryName,
		&seriesName,
		&itemName,
		&operationName,
	); err != nil {
		return nil, err
	}
	f.IntermediateVersion = intermediate.String
	f.CategoryName = categoryName.String
	f.SeriesName = seriesName.String
	f.ItemName = itemName.String
	f.OperationName = operationName.String
	if created, err := parseTimeString(createdRaw); err == nil {
		f.CreatedAt = created
	}
	return &f, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryFixtures(ctx context.Context, q querier, query string, args ...any) ([]*Fixture, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertFixture stores a new fixture record. The full identifier must be new
// and its four classification codes must exist in the catalog. When the store
// enforces unique storage folders, BasePath must be unused too.
func (s *Store) InsertFixture(ctx context.Context, f *Fixture, hook InsertHook) (*Fixture, error) {
	if f == nil {
		return nil, errors.New("fixture is nil")
	}
	ctx = ensureContext(ctx)
	var id int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := rowExists(ctx, tx, "fixtures", []string{"full_id"}, []any{f.FullID})
		if err != nil {
			return fmt.Errorf("check identifier: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: fixture %s already exists", ErrDuplicate, f.FullID)
		}

		if err := checkReferences(ctx, tx, f.Fields); err != nil {
			return err
		}

		if s.uniqueBasePath {
			taken, err := rowExists(ctx, tx, "fixtures", []string{"base_path"}, []any{f.BasePath})
			if err != nil {
				return fmt.Errorf("check base path: %w", err)
			}
			if taken {
				return fmt.Errorf("%w: storage folder %s already belongs to another fixture", ErrDuplicate, f.BasePath)
			}
		}

		if hook != nil {
			line, err := queryFixtures(ctx, tx,
				fixtureSelect+` WHERE f.category = ? AND f.series = ? AND f.item_number = ? AND f.operation = ?
                   AND f.fixture_number = ? AND f.unique_parts = ?`+fixtureOrder,
				f.Category, f.Series, f.ItemNumber, f.Operation, f.FixtureNumber, f.UniqueParts)
			if err != nil {
				return fmt.Errorf("load assembly line: %w", err)
			}
			if err := hook(line); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO fixtures (
                category, series, item_number, operation, fixture_number, unique_parts,
                part_in_assembly, part_quantity, assembly_version, intermediate_version,
                base_path, full_id, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.Category, f.Series, f.ItemNumber, f.Operation, f.FixtureNumber, f.UniqueParts,
			f.PartInAssembly, f.PartQuantity, f.AssemblyVersion, nullableString(f.IntermediateVersion),
			f.BasePath, f.FullID, now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert fixture: %w", classifyConstraint(err))
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func checkReferences(ctx context.Context, tx *sql.Tx, f fixtureid.Fields) error {
	checks := []struct {
		label   string
		table   string
		keyCols []string
		keys    []any
	}{
		{"category " + f.Category, "categories", []string{"code"}, []any{f.Category}},
		{"series " + f.Category + "." + f.Series, "series", []string{"category_code", "code"}, []any{f.Category, f.Series}},
		{"item number " + f.Category + "." + f.Series + f.ItemNumber, "item_numbers",
			[]string{"category_code", "series_code", "code"}, []any{f.Category, f.Series, f.ItemNumber}},
		{"operation " + f.Operation, "operations", []string{"code"}, []any{f.Operation}},
	}
	var missing []string
	for _, check := range checks {
		ok, err := rowExists(ctx, tx, check.table, check.keyCols, check.keys)
		if err != nil {
			return fmt.Errorf("check %s: %w", check.label, err)
		}
		if !ok {
			missing = append(missing, check.label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: unknown %s", ErrReferentialIntegrity, strings.Join(missing, ", "))
	}
	return nil
}

// GetByID fetches a fixture by its record id.
func (s *Store) GetByID(ctx context.Context, id int64) (*Fixture, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), fixtureSelect+` WHERE f.id = ?`, id)
	f, err := scanFixture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: fixture %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get fixture: %w", err)
	}
	return f, nil
}

// GetByFullID fetches a fixture by its identifier string.
func (s *Store) GetByFullID(ctx context.Context, fullID string) (*Fixture, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), fixtureSelect+` WHERE f.full_id = ?`, fullID)
	f, err := scanFixture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: fixture %s", ErrNotFound, fullID)
	}
	if err != nil {
		return nil, fmt.Errorf("get fixture: %w", err)
	}
	return f, nil
}

// List returns fixtures matching the filter ordered by classification,
// fixture number, unique parts and version.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Fixture, error) {
	var (
		conds []string
		args  []any
	)
	add := func(col, value string) {
		if value == "" {
			return
		}
		conds = append(conds, col+" = ?")
		args = append(args, value)
	}
	add("f.category", filter.Category)
	add("f.series", filter.Series)
	add("f.item_number", filter.ItemNumber)
	add("f.operation", filter.Operation)

	query := fixtureSelect
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	fixtures, err := queryFixtures(ensureContext(ctx), s.db, query+fixtureOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return fixtures, nil
}

// FixtureNumbers returns the distinct fixture numbers used within a
// classification tuple.
func (s *Store) FixtureNumbers(ctx context.Context, tuple fixtureid.Tuple) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT DISTINCT fixture_number FROM fixtures
         WHERE category = ? AND series = ? AND item_number = ? AND operation = ?
         ORDER BY fixture_number`,
		tuple.Category, tuple.Series, tuple.ItemNumber, tuple.Operation)
	if err != nil {
		return nil, fmt.Errorf("list fixture numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// DeleteFixture removes a record and reports how many records still reference
// its storage folder. A missing id returns a nil fixture and no error.
func (s *Store) DeleteFixture(ctx context.Context, id int64) (*Fixture, int, error) {
	ctx = ensureContext(ctx)
	var (
		deleted   *Fixture
		remaining int
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		deleted, remaining = nil, 0
		f, err := scanFixture(tx.QueryRowContext(ctx, fixtureSelect+` WHERE f.id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM fixtures WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete fixture: %w", err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM fixtures WHERE base_path = ?`, f.BasePath).Scan(&remaining); err != nil {
			return fmt.Errorf("count base path references: %w", err)
		}
		deleted = f
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return deleted, remaining, nil
}
