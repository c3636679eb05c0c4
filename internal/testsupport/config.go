package testsupport

import (
	"path/filepath"
	"testing"

	"fixtures/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.FixtureRoot = filepath.Join(base, "fixtures")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithUniqueBasePath enables one-record-per-folder enforcement.
func WithUniqueBasePath() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.UniqueBasePath = true
	}
}

// WithLabelPolicy toggles the printable-label alphabet check.
func WithLabelPolicy(enforce bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.EnforceLabelAlphabet = enforce
	}
}

// WithRegistry replaces the registry section wholesale.
func WithRegistry(reg config.Registry) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry = reg
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
