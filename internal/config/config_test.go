package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Runner.Shell != defaultShell {
		t.Fatalf("shell = %q, want default", cfg.Runner.Shell)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
	if !cfg.History.Enabled || cfg.History.RetentionRuns != defaultRetentionRuns {
		t.Fatalf("history defaults = %+v", cfg.History)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + dir + `/logs"

[logging]
level = "DEBUG"
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v, want lowercased values", cfg.Logging)
	}
	if cfg.Paths.LogDir != filepath.Join(dir, "logs") {
		t.Fatalf("log dir = %q", cfg.Paths.LogDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TREERUN_LOG_DIR", filepath.Join(dir, "env-logs"))
	t.Setenv("TREERUN_PLAN_DIR", filepath.Join(dir, "env-plans"))

	cfg, _, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Paths.LogDir != filepath.Join(dir, "env-logs") {
		t.Fatalf("log dir = %q, want env override", cfg.Paths.LogDir)
	}
	if cfg.Paths.PlanDir != filepath.Join(dir, "env-plans") {
		t.Fatalf("plan dir = %q, want env override", cfg.Paths.PlanDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"empty shell", func(c *Config) { c.Runner.Shell = "" }, "runner.shell"},
		{"negative timeout", func(c *Config) { c.Runner.StepTimeout = -1 }, "step_timeout"},
		{"zero retention", func(c *Config) { c.History.RetentionRuns = 0 }, "retention_runs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("validate error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/plans")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "plans") {
		t.Fatalf("expanded = %q", got)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if cfg.Runner.Shell != defaultShell {
		t.Fatalf("sample shell = %q", cfg.Runner.Shell)
	}
}
