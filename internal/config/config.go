// Package config loads and persists debugger settings.
//
// Settings live in a small JSON file, with LUADBG_* environment variables
// taking precedence. Only the pinned context preference is ever written
// back, and only best-effort.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Environment variable overrides.
const (
	EnvLogLevel = "LUADBG_LOG_LEVEL"
	EnvHistory  = "LUADBG_HISTORY"
	EnvContext  = "LUADBG_CONTEXT"
	EnvOutput   = "LUADBG_OUTPUT"
)

// Config holds the debugger settings.
type Config struct {
	// MaxHistory bounds the operator command history.
	MaxHistory int

	// DefaultContext is the context radius shown at each stop.
	DefaultContext int

	// OutputPath, when set, redirects the transcript to a file.
	OutputPath string

	// LogLevel is the diagnostic log level name.
	LogLevel string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxHistory:     50,
		DefaultContext: 0,
		LogLevel:       "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "luadbg", "config.json"), nil
}

// Load reads the config file at path and applies environment overrides. A
// missing file yields the defaults; a malformed file yields the defaults for
// the malformed parts.
func Load(path string) Config {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if v := gjson.GetBytes(data, "history.max"); v.Exists() {
			cfg.MaxHistory = int(v.Int())
		}
		if v := gjson.GetBytes(data, "display.context"); v.Exists() {
			cfg.DefaultContext = int(v.Int())
		}
		if v := gjson.GetBytes(data, "output.path"); v.Exists() {
			cfg.OutputPath = v.String()
		}
		if v := gjson.GetBytes(data, "logging.level"); v.Exists() {
			cfg.LogLevel = v.String()
		}
	}

	applyEnv(&cfg)
	return cfg
}

// applyEnv overrides cfg fields from LUADBG_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxHistory = n
		}
	}
	if v := os.Getenv(EnvContext); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DefaultContext = n
		}
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.OutputPath = v
	}
}

// SaveContext persists a pinned context preference into the config file at
// path, creating the file if needed and preserving unrelated settings.
func SaveContext(path string, radius int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		data = []byte("{}")
	}

	updated, err := sjson.SetBytes(data, "display.context", radius)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, updated, 0o644)
}
