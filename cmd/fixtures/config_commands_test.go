package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.fixtureRoot)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t, "[paths.extra]\nbogus = true")
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	out := mustRun(t, env, "doctor")
	requireContains(t, out, "Fixture root")
	requireContains(t, out, "== Database ==")
	requireContains(t, out, "== Catalog ==")
	requireContains(t, out, "[INFO] 0 registered")
	if strings.Contains(out, "[WARN]") {
		t.Fatalf("expected seeded catalog without warnings:\n%s", out)
	}

	var report struct {
		Healthy bool `json:"healthy"`
	}
	decodeJSON(t, mustRun(t, env, "--json", "doctor"), &report)
	if !report.Healthy {
		t.Fatal("expected healthy report")
	}
}

func TestDoctorWarnsOnEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRun(t, env, "doctor")
	requireContains(t, out, "[WARN] empty, fixtures cannot reference it")
	requireContains(t, out, "fixtures catalog import")
}
