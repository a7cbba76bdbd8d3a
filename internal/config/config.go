package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"
)

const envConfigPath = "HABITFLOW_CONFIG"

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	APIBaseURL string `yaml:"api_base_url"`
	// Timezone decides where the day boundary falls for streak and
	// calendar math, e.g. "Asia/Jakarta". Empty means the server's zone.
	Timezone  string `yaml:"timezone"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		DBPath:     "habitflow.db",
		APIBaseURL: "http://localhost:8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the YAML file named by HABITFLOW_CONFIG and applies any
// HABITFLOW_* env overrides on top of the defaults. An unset HABITFLOW_CONFIG
// is fine; a set-but-unreadable one is an error.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envConfigPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	overlay(&cfg.ListenAddr, "HABITFLOW_LISTEN_ADDR")
	overlay(&cfg.DBPath, "HABITFLOW_DB_PATH")
	overlay(&cfg.APIBaseURL, "HABITFLOW_API_BASE")
	overlay(&cfg.Timezone, "HABITFLOW_TZ")
	overlay(&cfg.LogLevel, "HABITFLOW_LOG_LEVEL")
	overlay(&cfg.LogFormat, "HABITFLOW_LOG_FORMAT")

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
