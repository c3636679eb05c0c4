package testsupport

import (
	"context"
	"testing"

	"fixtures/internal/config"
	"fixtures/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedCatalog inserts the catalog rows used throughout the tests:
// category CS, series CS.X, item CS.X01 and operations F and W.
func SeedCatalog(t testing.TB, st *store.Store) {
	t.Helper()

	ctx := context.Background()
	steps := []func() (store.UpsertResult, error){
		func() (store.UpsertResult, error) {
			return st.UpsertCategory(ctx, store.Category{Code: "CS", Name: "Car Seats"})
		},
		func() (store.UpsertResult, error) {
			return st.UpsertSeries(ctx, store.Series{CategoryCode: "CS", Code: "X", Name: "Experimental"})
		},
		func() (store.UpsertResult, error) {
			return st.UpsertItemNumber(ctx, store.ItemNumber{CategoryCode: "CS", SeriesCode: "X", Code: "01", Name: "Backrest Frame"})
		},
		func() (store.UpsertResult, error) {
			return st.UpsertOperation(ctx, store.Operation{Code: "F", Name: "Forming"})
		},
		func() (store.UpsertResult, error) {
			return st.UpsertOperation(ctx, store.Operation{Code: "W", Name: "Welding"})
		},
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("seed catalog step %d: %v", i, err)
		}
	}
}
