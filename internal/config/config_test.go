package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

func TestLoad_MissingConfig(t *testing.T) {
	t.Setenv("HABITFLOW_CONFIG", "nonexistent.yaml")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HABITFLOW_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.DBPath != "habitflow.db" {
		t.Errorf("dbPath = %q, want habitflow.db", cfg.DBPath)
	}
}

func TestLoad_CustomConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	t.Setenv("HABITFLOW_CONFIG", configFile)

	c := Config{DBPath: "/tmp/other.db", Timezone: "UTC"}
	d, err := yaml.Marshal(&c)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(configFile, d, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("dbPath = %q, want /tmp/other.db", cfg.DBPath)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listenAddr = %q, want default to survive partial config", cfg.ListenAddr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HABITFLOW_CONFIG", "")
	t.Setenv("HABITFLOW_DB_PATH", "/tmp/env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("dbPath = %q, want env override", cfg.DBPath)
	}
}

func TestLoad_BadTimezone(t *testing.T) {
	t.Setenv("HABITFLOW_CONFIG", "")
	t.Setenv("HABITFLOW_TZ", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
