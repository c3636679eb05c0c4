package registry_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fixtures/internal/config"
	"fixtures/internal/fixtureid"
	"fixtures/internal/logging"
	"fixtures/internal/registry"
	"fixtures/internal/store"
	"fixtures/internal/testsupport"
	"fixtures/internal/version"
)

func newRegistry(t *testing.T, opts ...testsupport.ConfigOption) (*registry.Registry, *store.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCatalog(t, st)
	return registry.New(st, cfg, logging.NewNop()), st, cfg
}

func TestCreateEndToEnd(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()
	if reg.Root() != cfg.Paths.FixtureRoot {
		t.Fatalf("unexpected root %q", reg.Root())
	}

	f, err := reg.Create(ctx, "CS.X01.F12.010101-V0Z")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	wantPath := filepath.Join(cfg.Paths.FixtureRoot, "CS", "CS.X01", "CS.X01.F12", "CS.X01.F12.010000-V0Z")
	if f.BasePath != wantPath {
		t.Fatalf("unexpected base path %q, want %q", f.BasePath, wantPath)
	}
	if info, err := os.Stat(wantPath); err != nil || !info.IsDir() {
		t.Fatalf("expected folder %s: %v", wantPath, err)
	}
	if f.AssemblyVersion != "V0" || f.IntermediateVersion != "Z" || !f.HasIntermediate() {
		t.Fatalf("unexpected version fields %+v", f.Fields)
	}

	got, err := reg.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullID != "CS.X01.F12.010101-V0Z" || got.Category != "CS" || got.Series != "X" ||
		got.ItemNumber != "01" || got.Operation != "F" || got.FixtureNumber != "12" ||
		got.UniqueParts != "01" || got.PartInAssembly != "01" || got.PartQuantity != "01" {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.CategoryName != "Car Seats" {
		t.Fatalf("expected catalog name, got %q", got.CategoryName)
	}

	resolved, err := reg.Resolve(ctx, " cs.x01.f12.010101-v0z ")
	if err != nil || resolved.ID != f.ID {
		t.Fatalf("Resolve by identifier returned %+v (%v)", resolved, err)
	}
	resolved, err = reg.Resolve(ctx, "1")
	if err != nil || resolved.ID != f.ID {
		t.Fatalf("Resolve by id returned %+v (%v)", resolved, err)
	}
	if _, err := reg.Resolve(ctx, "999"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicateLeavesStateUnchanged(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.Create(ctx, "CS.X01.F12.010101-01"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before, err := reg.ListFiltered(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListFiltered failed: %v", err)
	}
	entries := testsupport.CountEntries(t, cfg.Paths.FixtureRoot)

	if _, err := reg.Create(ctx, "CS.X01.F12.010101-01"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	after, err := reg.ListFiltered(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListFiltered failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("store changed: %d -> %d records", len(before), len(after))
	}
	if got := testsupport.CountEntries(t, cfg.Paths.FixtureRoot); got != entries {
		t.Fatalf("filesystem changed: %d -> %d entries", entries, got)
	}
}

func TestCreateEnforcesVersionOrder(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.Create(ctx, "CS.X01.F12.010101-02"); err != nil {
		t.Fatalf("Create 02 failed: %v", err)
	}
	entries := testsupport.CountEntries(t, cfg.Paths.FixtureRoot)

	if _, err := reg.Create(ctx, "CS.X01.F12.010101-01"); !errors.Is(err, version.ErrOrderViolation) {
		t.Fatalf("expected ErrOrderViolation, got %v", err)
	}
	if got := testsupport.CountEntries(t, cfg.Paths.FixtureRoot); got != entries {
		t.Fatalf("rejected create touched the filesystem: %d -> %d", entries, got)
	}

	for _, id := range []string{"CS.X01.F12.010101-X9", "CS.X01.F12.010101-02A", "CS.X01.F12.020101-02", "CS.X01.F12.010101-03"} {
		if _, err := reg.Create(ctx, id); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}
	// A special version never becomes the latest.
	if _, err := reg.Create(ctx, "CS.X01.F12.010101-02B"); !errors.Is(err, version.ErrOrderViolation) {
		t.Fatalf("expected 02B to be older than 03, got %v", err)
	}
	// Other assembly lines are independent.
	if _, err := reg.Create(ctx, "CS.X01.F12.030101-01"); err != nil {
		t.Fatalf("Create on a new line failed: %v", err)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.Create(ctx, "CS.X01.F12.010101"); !errors.Is(err, fixtureid.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if _, err := reg.Create(ctx, "CS.X01.F1I.010101-01"); !errors.Is(err, fixtureid.ErrLabelAlphabet) {
		t.Fatalf("expected ErrLabelAlphabet, got %v", err)
	}
	if _, err := reg.Create(ctx, "CS.X01.F12.010201-01"); !errors.Is(err, fixtureid.ErrPartOutOfRange) {
		t.Fatalf("expected ErrPartOutOfRange, got %v", err)
	}
	if _, err := reg.Create(ctx, "CS.Y01.F12.010101-01"); !errors.Is(err, store.ErrReferentialIntegrity) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}
	if got := testsupport.CountEntries(t, cfg.Paths.FixtureRoot); got != 0 {
		t.Fatalf("expected no folders after rejected creates, got %d entries", got)
	}
}

func TestCreateWithoutLabelPolicy(t *testing.T) {
	reg, _, _ := newRegistry(t, testsupport.WithLabelPolicy(false))
	if _, err := reg.Create(context.Background(), "CS.X01.F12.0I0L01-0O"); err != nil {
		t.Fatalf("expected relaxed policy to accept the labels, got %v", err)
	}
}

func TestCreateWithoutLabelPolicyStillChecksFixtureNumber(t *testing.T) {
	reg, _, _ := newRegistry(t, testsupport.WithLabelPolicy(false))
	ctx := context.Background()

	if _, err := reg.Create(ctx, "CS.X01.F1I.010101-01"); !errors.Is(err, fixtureid.ErrLabelAlphabet) {
		t.Fatalf("expected ErrLabelAlphabet for fixture number 1I, got %v", err)
	}
	if _, err := reg.Create(ctx, "CS.X01.F01.010101-01"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	next, err := reg.NextFixtureNumber(ctx, fixtureid.Tuple{Category: "CS", Series: "X", ItemNumber: "01", Operation: "F"})
	if err != nil {
		t.Fatalf("NextFixtureNumber failed: %v", err)
	}
	if next != "02" {
		t.Fatalf("expected next fixture number 02, got %q", next)
	}
}

func TestCreateFailsWhenFolderCannotBeCreated(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()

	blocker := filepath.Join(cfg.Paths.FixtureRoot, "CS")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if _, err := reg.Create(ctx, "CS.X01.F12.010101-01"); !errors.Is(err, registry.ErrStorageIO) {
		t.Fatalf("expected ErrStorageIO, got %v", err)
	}
	if _, err := reg.GetByFullID(ctx, "CS.X01.F12.010101-01"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no record after storage failure, got %v", err)
	}
}

func TestCreateRemovesFolderWhenInsertFails(t *testing.T) {
	reg, st, cfg := newRegistry(t)
	ctx := context.Background()

	db, err := sql.Open("sqlite", st.Path())
	if err != nil {
		t.Fatalf("open second connection: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TRIGGER reject_fixtures BEFORE INSERT ON fixtures
        BEGIN SELECT RAISE(ABORT, 'insert rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if _, err := reg.Create(ctx, "CS.X01.F12.010101-01"); err == nil {
		t.Fatal("expected insert failure")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.FixtureRoot, "CS")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected created folders to be removed, stat err %v", err)
	}
	if _, err := reg.GetByFullID(ctx, "CS.X01.F12.010101-01"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no record after insert failure, got %v", err)
	}
}

func TestUniqueBasePathPolicy(t *testing.T) {
	reg, _, cfg := newRegistry(t, testsupport.WithUniqueBasePath())
	ctx := context.Background()

	if _, err := reg.Create(ctx, "CS.X01.F12.020102-01"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	entries := testsupport.CountEntries(t, cfg.Paths.FixtureRoot)
	if _, err := reg.Create(ctx, "CS.X01.F12.020202-01"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for shared folder, got %v", err)
	}
	if got := testsupport.CountEntries(t, cfg.Paths.FixtureRoot); got != entries {
		t.Fatalf("filesystem changed: %d -> %d", entries, got)
	}
}

func TestDeleteKeepsSharedFolderAndPrunes(t *testing.T) {
	reg, _, cfg := newRegistry(t)
	ctx := context.Background()

	first, err := reg.Create(ctx, "CS.X01.F12.020102-01")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := reg.Create(ctx, "CS.X01.F12.020202-01")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.BasePath != second.BasePath {
		t.Fatalf("expected parts to share a folder: %s vs %s", first.BasePath, second.BasePath)
	}

	ok, err := reg.Delete(ctx, first.ID, true)
	if err != nil || !ok {
		t.Fatalf("Delete failed: %v %v", ok, err)
	}
	if _, err := os.Stat(first.BasePath); err != nil {
		t.Fatalf("expected shared folder kept while referenced: %v", err)
	}

	ok, err = reg.Delete(ctx, second.ID, true)
	if err != nil || !ok {
		t.Fatalf("Delete failed: %v %v", ok, err)
	}
	if _, err := os.Stat(first.BasePath); !os.IsNotExist(err) {
		t.Fatalf("expected folder removed, got %v", err)
	}
	if got := testsupport.CountEntries(t, cfg.Paths.FixtureRoot); got != 0 {
		t.Fatalf("expected empty parents pruned, %d entries remain", got)
	}
	if _, err := os.Stat(cfg.Paths.FixtureRoot); err != nil {
		t.Fatalf("fixture root must survive pruning: %v", err)
	}

	ok, err = reg.Delete(ctx, second.ID, true)
	if err != nil || ok {
		t.Fatalf("expected unknown id to report false, got %v %v", ok, err)
	}
}

func TestDeleteWithoutRemovingFolder(t *testing.T) {
	reg, _, _ := newRegistry(t)
	ctx := context.Background()

	f, err := reg.Create(ctx, "CS.X01.F12.010101-01")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ok, err := reg.Delete(ctx, f.ID, false)
	if err != nil || !ok {
		t.Fatalf("Delete failed: %v %v", ok, err)
	}
	if _, err := os.Stat(f.BasePath); err != nil {
		t.Fatalf("expected folder kept: %v", err)
	}
	if _, err := reg.GetByID(ctx, f.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestDeleteToleratesMissingFolder(t *testing.T) {
	reg, _, _ := newRegistry(t)
	ctx := context.Background()

	f, err := reg.Create(ctx, "CS.X01.F12.010101-01")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.RemoveAll(f.BasePath); err != nil {
		t.Fatalf("remove folder: %v", err)
	}
	if ok, err := reg.Delete(ctx, f.ID, true); err != nil || !ok {
		t.Fatalf("expected delete to succeed without folder, got %v %v", ok, err)
	}
}

func TestNextFixtureNumber(t *testing.T) {
	reg, _, _ := newRegistry(t)
	ctx := context.Background()
	tuple := fixtureid.Tuple{Category: "CS", Series: "X", ItemNumber: "01", Operation: "F"}

	next, err := reg.NextFixtureNumber(ctx, tuple)
	if err != nil || next != "01" {
		t.Fatalf("expected 01 for empty tuple, got %q (%v)", next, err)
	}

	for _, id := range []string{"CS.X01.F01.010101-01", "CS.X01.F01.010101-02", "CS.X01.F03.010101-01", "CS.X01.W02.010101-01"} {
		if _, err := reg.Create(ctx, id); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}
	next, err = reg.NextFixtureNumber(ctx, tuple)
	if err != nil || next != "02" {
		t.Fatalf("expected gap 02, got %q (%v)", next, err)
	}
	next, err = reg.NextFixtureNumber(ctx, fixtureid.Tuple{Category: "CS", Series: "X", ItemNumber: "01", Operation: "W"})
	if err != nil || next != "01" {
		t.Fatalf("expected 01 for welding tuple, got %q (%v)", next, err)
	}

	if _, err := reg.NextFixtureNumber(ctx, fixtureid.Tuple{Category: "C", Series: "X", ItemNumber: "01", Operation: "F"}); !errors.Is(err, fixtureid.ErrParse) {
		t.Fatalf("expected ErrParse for malformed tuple, got %v", err)
	}
}

func TestLinesSummarizeVersions(t *testing.T) {
	reg, _, _ := newRegistry(t)
	ctx := context.Background()

	for _, id := range []string{
		"CS.X01.F12.010101-01",
		"CS.X01.F12.010101-X1",
		"CS.X01.F12.010101-02",
		"CS.X01.F12.020102-01",
		"CS.X01.F12.020202-01",
	} {
		if _, err := reg.Create(ctx, id); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	lines, err := reg.Lines(ctx, fixtureid.Tuple{Category: "CS", Series: "X", ItemNumber: "01", Operation: "F"})
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", lines)
	}
	first := lines[0]
	if first.Key.UniqueParts != "01" || first.Latest != "02" || first.Records != 3 {
		t.Fatalf("unexpected first line %+v", first)
	}
	if len(first.Versions) != 2 || first.Versions[0] != "01" || first.Versions[1] != "02" {
		t.Fatalf("unexpected versions %v", first.Versions)
	}
	if len(first.Special) != 1 || first.Special[0] != "X1" {
		t.Fatalf("unexpected special versions %v", first.Special)
	}
	second := lines[1]
	if second.Key.UniqueParts != "02" || second.Records != 2 || len(second.Versions) != 1 || second.Latest != "01" {
		t.Fatalf("unexpected second line %+v", second)
	}
}
