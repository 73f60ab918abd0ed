package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOCAL_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/focal.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Insights.Model != "gpt-4o-mini" {
		t.Errorf("Insights.Model = %q", cfg.Insights.Model)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if time.Duration(cfg.Server.ReadTimeout) != 30*time.Second {
		t.Errorf("ReadTimeout = %v", time.Duration(cfg.Server.ReadTimeout))
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "focal.yaml")
	yaml := `
server:
  port: 9090
  read_timeout: 10s
database:
  path: /tmp/focal-test.db
insights:
  model: gpt-4o
log:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if time.Duration(cfg.Server.ReadTimeout) != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", time.Duration(cfg.Server.ReadTimeout))
	}
	if cfg.Database.Path != "/tmp/focal-test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Insights.Model != "gpt-4o" {
		t.Errorf("Insights.Model = %q", cfg.Insights.Model)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Write timeout was not in the file; the default must survive.
	if time.Duration(cfg.Server.WriteTimeout) != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default", time.Duration(cfg.Server.WriteTimeout))
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOCAL_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FOCAL_PORT", "7070")
	t.Setenv("FOCAL_DB_PATH", "/tmp/env-focal.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FOCAL_INSIGHTS_MODEL", "gpt-4.1-mini")
	t.Setenv("FOCAL_LOG_LEVEL", "warn")
	t.Setenv("FOCAL_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/env-focal.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Insights.APIKey != "sk-test" || cfg.Insights.Model != "gpt-4.1-mini" {
		t.Errorf("Insights = %+v", cfg.Insights)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if time.Duration(cfg.Server.ShutdownTimeout) != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", time.Duration(cfg.Server.ShutdownTimeout))
	}
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	t.Setenv("FOCAL_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FOCAL_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}

func TestDuration_UnmarshalRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("server:\n  read_timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
