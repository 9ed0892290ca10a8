package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("expected default backend sqlite, got %q", cfg.DataBackend)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9999" || cfg.DataBackend != "memory" || cfg.LogLevel != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestValidateOK(t *testing.T) {
	cfg := &Config{
		Port:         "8080",
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
		DataBackend:  "sqlite",
		LogLevel:     "info",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:        "not-a-port",
		DataBackend: "postgres",
		LogLevel:    "loud",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"invalid port", "invalid data backend", "invalid log level"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to mention %q, got: %v", want, msg)
		}
	}
}

func TestValidatePortRange(t *testing.T) {
	cfg := &Config{Port: "70000", DataBackend: "memory", LogLevel: "info"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected out-of-range port to fail")
	}
}
