package preflight

import "fixtures/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Fixture root", cfg.Paths.FixtureRoot),
	}
	if cfg.Preflight.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Fixture root free space", cfg.Paths.FixtureRoot, cfg.Preflight.MinFreeMiB))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
