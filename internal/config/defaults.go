package config

const (
	defaultConfigPath   = "~/.config/fixtures/config.toml"
	projectConfigName   = "fixtures.toml"
	defaultDataDir      = "~/.local/share/fixtures"
	defaultFixtureRoot  = "~/fixtures"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultMinFreeMiB   = 256
	fixtureRootEnv      = "FIXTURES_ROOT"
)

// Default returns a Config populated with repository defaults. FixtureRoot is
// left empty so normalize can fall back to FIXTURES_ROOT before the built-in
// default.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Registry: Registry{
			EnforceLabelAlphabet: true,
			UniqueBasePath:       false,
			RemoveDirectories:    true,
			PruneEmptyParents:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Preflight: Preflight{
			MinFreeMiB: defaultMinFreeMiB,
		},
	}
}
