package trellis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PoolBatchSize != DefaultPoolBatchSize {
		t.Errorf("PoolBatchSize = %d, want %d", cfg.PoolBatchSize, DefaultPoolBatchSize)
	}
	if cfg.Run.TPS != 60 || cfg.Run.Width != 1280 || cfg.Run.Height != 720 {
		t.Errorf("Run = %+v", cfg.Run)
	}
	if cfg.Logging.Level != "info" || cfg.Debug {
		t.Errorf("Logging = %+v Debug = %v", cfg.Logging, cfg.Debug)
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "trellis.toml", `
pool_batch_size = 64
debug = true

[logging]
level = "debug"
format = "json"

[run]
title = "demo"
tps = 30
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PoolBatchSize != 64 || !cfg.Debug {
		t.Errorf("PoolBatchSize=%d Debug=%v", cfg.PoolBatchSize, cfg.Debug)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Run.Title != "demo" || cfg.Run.TPS != 30 {
		t.Errorf("Run = %+v", cfg.Run)
	}
	// Missing keys keep their defaults.
	if cfg.Run.Width != 1280 || cfg.Run.Height != 720 {
		t.Errorf("Run size = %dx%d, want defaults", cfg.Run.Width, cfg.Run.Height)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "trellis.yaml", `
pool_batch_size: 10
run:
  width: 640
  height: 480
  editing: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PoolBatchSize != 10 {
		t.Errorf("PoolBatchSize = %d, want 10", cfg.PoolBatchSize)
	}
	if cfg.Run.Width != 640 || cfg.Run.Height != 480 || !cfg.Run.Editing {
		t.Errorf("Run = %+v", cfg.Run)
	}
	if cfg.Run.Title != "trellis" || cfg.Logging.Level != "info" {
		t.Error("missing YAML keys should keep their defaults")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap a not-exist error, got %v", err)
	}
	if cfg.PoolBatchSize != DefaultPoolBatchSize {
		t.Error("defaults should be returned alongside the error")
	}
}

func TestLoadConfigBadSyntax(t *testing.T) {
	path := writeFile(t, "bad.toml", "pool_batch_size = = 3")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v, want a parse config error", err)
	}
}

func TestParseConfigExtension(t *testing.T) {
	var cfg Config
	if err := ParseConfig([]byte("debug: true"), ".YML", &cfg); err != nil || !cfg.Debug {
		t.Errorf("yml: err=%v debug=%v", err, cfg.Debug)
	}
	cfg = Config{}
	if err := ParseConfig([]byte("debug = true"), "", &cfg); err != nil || !cfg.Debug {
		t.Errorf("no extension should decode as TOML: err=%v debug=%v", err, cfg.Debug)
	}
}
