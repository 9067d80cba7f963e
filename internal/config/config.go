// Package config loads tool configuration from defaults, an optional JSON
// file, and BAGTOOL_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	pebblestore "github.com/davidqiu1993/ros-bag-tools/internal/storage/pebble"
)

// Config is the top-level configuration for the bag tools.
type Config struct {
	// LogLevel is the minimum emitted log level.
	LogLevel string `json:"logLevel" koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// LogFormat selects console ("text") or machine ("json") log output.
	LogFormat string `json:"logFormat" koanf:"log_format" validate:"omitempty,oneof=text json"`
	// Postfix is appended to filtered bag base names.
	Postfix string `json:"postfix" koanf:"postfix" validate:"required"`
	// OutDir, when set, receives all outputs instead of each source's directory.
	OutDir string `json:"outDir" koanf:"outdir"`
	// Fsync controls output bag durability: always|interval|never.
	Fsync string `json:"fsync" koanf:"fsync" validate:"omitempty,oneof=always interval never"`
	// Progress enables terminal progress bars.
	Progress bool `json:"progress" koanf:"progress"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Postfix:   ".filtered",
		Fsync:     "always",
		Progress:  true,
	}
}

// Load reads configuration. A .env file in the working directory is loaded
// first (missing is fine), then the optional JSON file at path, then the
// BAGTOOL_* environment overlay. The result is validated before returning.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("BAGTOOL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BAGTOOL_"))
	}), nil); err != nil {
		return Config{}, err
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FsyncMode maps the configured fsync name to the storage mode.
func (c Config) FsyncMode() pebblestore.FsyncMode {
	switch c.Fsync {
	case "interval":
		return pebblestore.FsyncModeInterval
	case "never":
		return pebblestore.FsyncModeNever
	default:
		return pebblestore.FsyncModeAlways
	}
}
