package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fixtures/internal/store"
	"fixtures/internal/version"
)

func TestCreateShowListDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	out := mustRun(t, env, "create", "CS.X01.F12.010101-V0Z")
	requireContains(t, out, "Created fixture 1: CS.X01.F12.010101-V0Z")
	folder := filepath.Join(env.fixtureRoot, "CS", "CS.X01", "CS.X01.F12", "CS.X01.F12.010000-V0Z")
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		t.Fatalf("expected folder %s: %v", folder, err)
	}

	out = mustRun(t, env, "show", "cs.x01.f12.010101-v0z")
	requireContains(t, out, "CS (Car Seats)")
	requireContains(t, out, "Backrest Frame")

	var shown map[string]any
	decodeJSON(t, mustRun(t, env, "--json", "show", "1"), &shown)
	if shown["full_id"] != "CS.X01.F12.010101-V0Z" || shown["base_path"] != folder {
		t.Fatalf("unexpected show JSON %v", shown)
	}

	mustRun(t, env, "create", "CS.X01.F12.010101-V1")
	var listed []map[string]any
	decodeJSON(t, mustRun(t, env, "--json", "list", "--category", "cs"), &listed)
	if len(listed) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(listed))
	}
	decodeJSON(t, mustRun(t, env, "--json", "list", "--operation", "W"), &listed)
	if len(listed) != 0 {
		t.Fatalf("expected empty list, got %v", listed)
	}

	out = mustRun(t, env, "delete", "1", "--keep-dir")
	requireContains(t, out, "Deleted fixture 1")
	if _, err := os.Stat(folder); err != nil {
		t.Fatalf("--keep-dir removed the folder: %v", err)
	}

	out = mustRun(t, env, "delete", "CS.X01.F12.010101-V1")
	requireContains(t, out, "Deleted fixture 2")
	if _, err := os.Stat(filepath.Join(env.fixtureRoot, "CS", "CS.X01", "CS.X01.F12", "CS.X01.F12.010000-V1")); !os.IsNotExist(err) {
		t.Fatalf("expected folder removed, got %v", err)
	}

	_, _, err := runCLI(t, []string{"show", "1"}, env.configPath)
	if !errors.Is(err, store.ErrNotFound) || exitCode(err) != exitNotFound {
		t.Fatalf("expected not found exit, got %v", err)
	}
}

func TestCreateConflictsExitWithConflictCode(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	mustRun(t, env, "create", "CS.X01.F12.010101-02")

	_, _, err := runCLI(t, []string{"create", "CS.X01.F12.010101-02"}, env.configPath)
	if !errors.Is(err, store.ErrDuplicate) || exitCode(err) != exitConflict {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
	_, _, err = runCLI(t, []string{"create", "CS.X01.F12.010101-01"}, env.configPath)
	if !errors.Is(err, version.ErrOrderViolation) || exitCode(err) != exitConflict {
		t.Fatalf("expected order conflict, got %v", err)
	}
	_, _, err = runCLI(t, []string{"create", "CS.Y01.F12.010101-01"}, env.configPath)
	if !errors.Is(err, store.ErrReferentialIntegrity) || exitCode(err) != exitConflict {
		t.Fatalf("expected referential conflict, got %v", err)
	}
	_, _, err = runCLI(t, []string{"create", "not-an-id"}, env.configPath)
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage exit, got %v", err)
	}

	mustRun(t, env, "create", "CS.X01.F12.010101-X9")
}

func TestNextFillsGaps(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	if out := mustRun(t, env, "next", "CS", "X", "01", "F"); out != "01\n" {
		t.Fatalf("unexpected next output %q", out)
	}
	mustRun(t, env, "create", "CS.X01.F01.010101-01")
	mustRun(t, env, "create", "CS.X01.F03.010101-01")
	if out := mustRun(t, env, "next", "cs", "x", "01", "f"); out != "02\n" {
		t.Fatalf("unexpected next output %q", out)
	}
}

func TestAttachCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)
	mustRun(t, env, "create", "CS.X01.F12.010101-01")

	src := filepath.Join(env.baseDir, "drawing.pdf")
	if err := os.WriteFile(src, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out := mustRun(t, env, "attach", "1", src)
	requireContains(t, out, "copied")
	target := filepath.Join(env.fixtureRoot, "CS", "CS.X01", "CS.X01.F12", "CS.X01.F12.010000-01", "CS.X01.F12.010101-01.pdf")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected attached file: %v", err)
	}

	out = mustRun(t, env, "attach", "CS.X01.F12.010101-01", src)
	requireContains(t, out, "skipped")
	out = mustRun(t, env, "attach", "--overwrite", "1", src)
	requireContains(t, out, "copied")
}
