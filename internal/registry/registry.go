package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fixtures/internal/allocator"
	"fixtures/internal/config"
	"fixtures/internal/fixtureid"
	"fixtures/internal/logging"
	"fixtures/internal/store"
	"fixtures/internal/version"
)

// ErrStorageIO marks filesystem failures while managing fixture folders.
var ErrStorageIO = errors.New("storage I/O error")

// Registry binds fixture identifiers to catalog rows and storage folders.
type Registry struct {
	store  *store.Store
	root   string
	policy config.Registry
	logger *slog.Logger
}

// New builds a registry over an open store. Folders are created below
// cfg.Paths.FixtureRoot.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Registry {
	return &Registry{
		store:  st,
		root:   cfg.Paths.FixtureRoot,
		policy: cfg.Registry,
		logger: logging.NewComponentLogger(logger, "registry"),
	}
}

// Root returns the fixture storage root.
func (r *Registry) Root() string {
	return r.root
}

// BasePath returns the storage folder for an identifier.
func (r *Registry) BasePath(f fixtureid.Fields) string {
	return filepath.Join(r.root, f.RelativeDir())
}

// Create registers a new fixture identifier and creates its storage folder.
func (r *Registry) Create(ctx context.Context, fullID string) (*store.Fixture, error) {
	fields, err := fixtureid.Parse(fullID)
	if err != nil {
		return nil, err
	}
	if r.policy.EnforceLabelAlphabet {
		err = fields.ValidateLabels()
	} else {
		err = fields.ValidateFixtureNumber()
	}
	if err != nil {
		return nil, err
	}
	next, err := version.Parse(fields.Version())
	if err != nil {
		return nil, err
	}

	ctx = logging.WithFixtureID(ctx, fullID)
	logger := logging.WithContext(ctx, r.logger)

	rec := &store.Fixture{
		Fields:   fields,
		FullID:   fullID,
		BasePath: r.BasePath(fields),
	}

	var created []string
	hook := func(line []*store.Fixture) error {
		if err := checkLineOrder(line, next); err != nil {
			return err
		}
		dirs, err := mkdirAllTracked(rec.BasePath)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrStorageIO, rec.BasePath, err)
		}
		created = append(created, dirs...)
		return nil
	}

	fixture, err := r.store.InsertFixture(ctx, rec, hook)
	if err != nil {
		removeCreated(created)
		logger.Debug("fixture rejected", logging.Error(err))
		return nil, err
	}

	logger.Info("fixture created",
		logging.Int64("id", fixture.ID),
		logging.String("base_path", fixture.BasePath),
		logging.Bool("folder_created", len(created) > 0),
	)
	return fixture, nil
}

func checkLineOrder(line []*store.Fixture, next version.Version) error {
	versions := make([]version.Version, 0, len(line))
	for _, f := range line {
		v, err := version.Parse(f.Version())
		if err != nil {
			return fmt.Errorf("stored fixture %s: %w", f.FullID, err)
		}
		versions = append(versions, v)
	}
	latest, ok := version.Latest(versions)
	return version.CheckOrder(latest, ok, next)
}

// mkdirAllTracked creates path and its missing parents, returning the
// directories it created, deepest first.
func mkdirAllTracked(path string) ([]string, error) {
	var missing []string
	for dir := path; ; {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return nil, fmt.Errorf("%s is not a directory", dir)
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return missing, nil
}

func removeCreated(dirs []string) {
	for _, dir := range dirs {
		_ = os.Remove(dir)
	}
}

// Delete removes a fixture record. With removeDirectory set, the storage
// folder is removed once no other record references it, and parent folders
// left empty are pruned up to the fixture root when the policy allows. An
// unknown id reports false. A folder that cannot be removed reports true
// together with ErrStorageIO: the record stays deleted.
func (r *Registry) Delete(ctx context.Context, id int64, removeDirectory bool) (bool, error) {
	deleted, remaining, err := r.store.DeleteFixture(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted == nil {
		return false, nil
	}

	ctx = logging.WithFixtureID(ctx, deleted.FullID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("fixture deleted",
		logging.Int64("id", deleted.ID),
		logging.Int("folder_references", remaining),
	)

	if !removeDirectory || remaining > 0 {
		return true, nil
	}
	if err := r.removeFolder(deleted.BasePath); err != nil {
		logging.WarnWithContext(logger, "fixture folder not removed", "folder_cleanup",
			logging.String("base_path", deleted.BasePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the folder by hand"),
			logging.String(logging.FieldImpact, "record deleted, folder left on disk"),
		)
		return true, err
	}
	logger.Info("fixture folder removed", logging.String("base_path", deleted.BasePath))
	return true, nil
}

func (r *Registry) removeFolder(path string) error {
	clean := filepath.Clean(path)
	if clean == "" || clean == filepath.Dir(clean) || clean == filepath.Clean(r.root) {
		return fmt.Errorf("%w: refusing to remove %q", ErrStorageIO, path)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrStorageIO, clean, err)
	}
	if r.policy.PruneEmptyParents {
		r.pruneEmptyParents(filepath.Dir(clean))
	}
	return nil
}

// pruneEmptyParents removes empty directories from dir upwards, stopping at
// the fixture root or the first directory that still has entries.
func (r *Registry) pruneEmptyParents(dir string) {
	root := filepath.Clean(r.root)
	for {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// GetByID fetches a fixture by record id.
func (r *Registry) GetByID(ctx context.Context, id int64) (*store.Fixture, error) {
	return r.store.GetByID(ctx, id)
}

// GetByFullID fetches a fixture by identifier.
func (r *Registry) GetByFullID(ctx context.Context, fullID string) (*store.Fixture, error) {
	return r.store.GetByFullID(ctx, fullID)
}

// Resolve accepts either a numeric record id or a fixture identifier.
func (r *Registry) Resolve(ctx context.Context, ref string) (*store.Fixture, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return r.store.GetByID(ctx, id)
	}
	normalized := fixtureid.Normalize(ref)
	if _, err := fixtureid.Parse(normalized); err != nil {
		return nil, err
	}
	return r.store.GetByFullID(ctx, normalized)
}

// ListFiltered returns fixtures matching the filter, catalog names included.
func (r *Registry) ListFiltered(ctx context.Context, filter store.Filter) ([]*store.Fixture, error) {
	return r.store.List(ctx, filter)
}

// NextFixtureNumber returns the smallest unused fixture number within the
// classification tuple.
func (r *Registry) NextFixtureNumber(ctx context.Context, tuple fixtureid.Tuple) (string, error) {
	if !fixtureid.ValidCategoryCode(tuple.Category) || !fixtureid.ValidSeriesCode(tuple.Series) ||
		!fixtureid.ValidItemCode(tuple.ItemNumber) || !fixtureid.ValidOperationCode(tuple.Operation) {
		return "", &fixtureid.ParseError{Input: tuple.String(), Reason: "invalid classification codes"}
	}
	existing, err := r.store.FixtureNumbers(ctx, tuple)
	if err != nil {
		return "", err
	}
	next, err := allocator.Next(existing)
	if err != nil {
		return "", fmt.Errorf("next fixture number for %s: %w", tuple, err)
	}
	return next, nil
}
