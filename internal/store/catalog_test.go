package store_test

import (
	"context"
	"errors"
	"testing"

	"fixtures/internal/store"
	"fixtures/internal/testsupport"
)

func TestUpsertCategoryOutcomes(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	steps := []struct {
		name string
		want store.UpsertResult
	}{
		{"Car Seats", store.UpsertAdded},
		{"Car Seats", store.UpsertSkipped},
		{"  Car   Seats ", store.UpsertSkipped},
		{"Car Seat Frames", store.UpsertUpdated},
		{"Car Seat Frames", store.UpsertSkipped},
	}
	for i, step := range steps {
		got, err := st.UpsertCategory(ctx, store.Category{Code: "CS", Name: step.name})
		if err != nil {
			t.Fatalf("step %d: UpsertCategory failed: %v", i, err)
		}
		if got != step.want {
			t.Fatalf("step %d: got %s want %s", i, got, step.want)
		}
	}

	c, err := st.Category(ctx, "CS")
	if err != nil {
		t.Fatalf("Category failed: %v", err)
	}
	if c.Name != "Car Seat Frames" {
		t.Fatalf("unexpected name %q", c.Name)
	}
}

func TestUpsertComparesNormalizedNames(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if got, err := st.UpsertOperation(ctx, store.Operation{Code: "P", Name: "Pru\u0308fen"}); err != nil || got != store.UpsertAdded {
		t.Fatalf("expected added, got %s (%v)", got, err)
	}
	if got, err := st.UpsertOperation(ctx, store.Operation{Code: "P", Name: "Pr\u00fcfen"}); err != nil || got != store.UpsertSkipped {
		t.Fatalf("expected composed form to be skipped, got %s (%v)", got, err)
	}
}

func TestUpsertRequiresParents(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	got, err := st.UpsertSeries(ctx, store.Series{CategoryCode: "CS", Code: "X", Name: "Experimental"})
	if got != store.UpsertError || !errors.Is(err, store.ErrReferentialIntegrity) {
		t.Fatalf("expected referential integrity error, got %s (%v)", got, err)
	}

	if _, err := st.UpsertCategory(ctx, store.Category{Code: "CS", Name: "Car Seats"}); err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}
	got, err = st.UpsertItemNumber(ctx, store.ItemNumber{CategoryCode: "CS", SeriesCode: "X", Code: "01", Name: "Frame"})
	if got != store.UpsertError || !errors.Is(err, store.ErrReferentialIntegrity) {
		t.Fatalf("expected item without series to fail, got %s (%v)", got, err)
	}

	if got, err := st.UpsertSeries(ctx, store.Series{CategoryCode: "CS", Code: "X", Name: "Experimental"}); err != nil || got != store.UpsertAdded {
		t.Fatalf("expected series added, got %s (%v)", got, err)
	}
	if got, err := st.UpsertItemNumber(ctx, store.ItemNumber{CategoryCode: "CS", SeriesCode: "X", Code: "01", Name: "Frame"}); err != nil || got != store.UpsertAdded {
		t.Fatalf("expected item added, got %s (%v)", got, err)
	}
}

func TestUpsertRejectsMalformedCodes(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	cases := []func() (store.UpsertResult, error){
		func() (store.UpsertResult, error) { return st.UpsertCategory(ctx, store.Category{Code: "C", Name: "x"}) },
		func() (store.UpsertResult, error) { return st.UpsertCategory(ctx, store.Category{Code: "C5", Name: "x"}) },
		func() (store.UpsertResult, error) { return st.UpsertCategory(ctx, store.Category{Code: "cs", Name: "x"}) },
		func() (store.UpsertResult, error) {
			return st.UpsertSeries(ctx, store.Series{CategoryCode: "CS", Code: "XY", Name: "x"})
		},
		func() (store.UpsertResult, error) {
			return st.UpsertItemNumber(ctx, store.ItemNumber{CategoryCode: "CS", SeriesCode: "X", Code: "1", Name: "x"})
		},
		func() (store.UpsertResult, error) { return st.UpsertOperation(ctx, store.Operation{Code: "", Name: "x"}) },
	}
	for i, run := range cases {
		got, err := run()
		if got != store.UpsertError || !errors.Is(err, store.ErrInvalidCode) {
			t.Fatalf("case %d: expected ErrInvalidCode, got %s (%v)", i, got, err)
		}
	}
}

func TestCatalogLookupsAreOrdered(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedCatalog(t, st)

	for _, c := range []store.Category{{Code: "AB", Name: "Axles"}, {Code: "ZZZ", Name: "Misc"}} {
		if _, err := st.UpsertCategory(ctx, c); err != nil {
			t.Fatalf("UpsertCategory failed: %v", err)
		}
	}
	for _, code := range []string{"A", "1"} {
		if _, err := st.UpsertSeries(ctx, store.Series{CategoryCode: "CS", Code: code, Name: "S" + code}); err != nil {
			t.Fatalf("UpsertSeries failed: %v", err)
		}
	}

	cats, err := st.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 3 || cats[0].Code != "AB" || cats[1].Code != "CS" || cats[2].Code != "ZZZ" {
		t.Fatalf("unexpected categories %+v", cats)
	}

	series, err := st.SeriesByCategory(ctx, "CS")
	if err != nil {
		t.Fatalf("SeriesByCategory failed: %v", err)
	}
	if len(series) != 3 || series[0].Code != "1" || series[1].Code != "A" || series[2].Code != "X" {
		t.Fatalf("unexpected series %+v", series)
	}
	if none, err := st.SeriesByCategory(ctx, "AB"); err != nil || len(none) != 0 {
		t.Fatalf("expected no series for AB, got %+v (%v)", none, err)
	}

	items, err := st.ItemsByCategoryAndSeries(ctx, "CS", "X")
	if err != nil || len(items) != 1 || items[0].Key() != "CS.X01" {
		t.Fatalf("unexpected items %+v (%v)", items, err)
	}

	ops, err := st.Operations(ctx)
	if err != nil || len(ops) != 2 || ops[0].Code != "F" || ops[1].Code != "W" {
		t.Fatalf("unexpected operations %+v (%v)", ops, err)
	}

	all, err := st.AllSeries(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("unexpected AllSeries %+v (%v)", all, err)
	}
	allItems, err := st.AllItemNumbers(ctx)
	if err != nil || len(allItems) != 1 {
		t.Fatalf("unexpected AllItemNumbers %+v (%v)", allItems, err)
	}
}

func TestPointLookupsReportNotFound(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := st.Category(ctx, "QQ"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for category, got %v", err)
	}
	if _, err := st.SeriesByKey(ctx, "QQ", "1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for series, got %v", err)
	}
	if _, err := st.ItemNumberByKey(ctx, "QQ", "1", "01"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for item, got %v", err)
	}
	if _, err := st.Operation(ctx, "Q"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for operation, got %v", err)
	}
}
