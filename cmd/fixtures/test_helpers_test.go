package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath  string
	dataDir     string
	fixtureRoot string
	baseDir     string
}

func setupCLITestEnv(t *testing.T, extra ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("FIXTURES_ROOT", "")

	env := &cliTestEnv{
		configPath:  filepath.Join(base, "fixtures.toml"),
		dataDir:     filepath.Join(base, "data"),
		fixtureRoot: filepath.Join(base, "fixtures"),
		baseDir:     base,
	}
	writeTestConfig(t, env, extra...)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, extra ...string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nfixture_root = %q\n\n[preflight]\nmin_free_mib = 1\n",
		env.dataDir,
		env.fixtureRoot,
	)
	for _, section := range extra {
		content += "\n" + section + "\n"
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI and fails the test on error.
func mustRun(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("fixtures %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func decodeJSON(t *testing.T, raw string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		t.Fatalf("decode JSON %q: %v", raw, err)
	}
}

func seedCatalog(t *testing.T, env *cliTestEnv) {
	t.Helper()
	mustRun(t, env, "catalog", "set", "category", "CS", "Car Seats")
	mustRun(t, env, "catalog", "set", "series", "CS", "X", "Experimental")
	mustRun(t, env, "catalog", "set", "item", "CS", "X", "01", "Backrest Frame")
	mustRun(t, env, "catalog", "set", "operation", "F", "Forming")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
