package store_test

import (
	"context"
	"errors"
	"testing"

	"fixtures/internal/store"
	"fixtures/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.Readable {
		t.Fatalf("expected readable database, got %+v", health)
	}
	if !health.SchemaCurrent || health.SchemaVersion != 1 {
		t.Fatalf("unexpected schema state: %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("unexpected missing tables: %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("unexpected path %q", st.Path())
	}
}

func TestOpenRefusesSecondWriter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenStore(t, cfg)

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()
	if _, err := st.UpsertOperation(ctx, store.Operation{Code: "F", Name: "Forming"}); err != nil {
		t.Fatalf("UpsertOperation failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	op, err := reopened.Operation(ctx, "F")
	if err != nil {
		t.Fatalf("Operation failed: %v", err)
	}
	if op.Name != "Forming" {
		t.Fatalf("unexpected operation %+v", op)
	}
}
