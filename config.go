package trellis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of a World and its driving loop.
// Files may be TOML or YAML; LoadConfig picks the decoder by extension.
type Config struct {
	PoolBatchSize int           `toml:"pool_batch_size" yaml:"pool_batch_size"`
	Debug         bool          `toml:"debug" yaml:"debug"`
	Logging       LoggingConfig `toml:"logging" yaml:"logging"`
	Run           RunConfig     `toml:"run" yaml:"run"`
}

// LoggingConfig selects the zap logger built by NewLogger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// RunConfig configures the Ebitengine window opened by Run.
type RunConfig struct {
	Title   string `toml:"title" yaml:"title"`
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	TPS     int    `toml:"tps" yaml:"tps"`
	Editing bool   `toml:"editing" yaml:"editing"` // tick EditingUpdate instead of Update
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		PoolBatchSize: DefaultPoolBatchSize,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Run: RunConfig{
			Title:  "trellis",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
	}
}

// LoadConfig reads a TOML or YAML file over DefaultConfig. Keys missing
// from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := ParseConfig(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data into cfg. ext is a file extension such as
// ".toml" or ".yaml"; anything that is not YAML is decoded as TOML.
func ParseConfig(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}
