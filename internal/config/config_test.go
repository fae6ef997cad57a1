package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvHistory, EnvContext, EnvOutput} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))

	if cfg.MaxHistory != 50 || cfg.DefaultContext != 0 || cfg.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"history": {"max": 25},
		"display": {"context": 3},
		"output": {"path": "/tmp/dbg.txt"},
		"logging": {"level": "debug"}
	}`)

	cfg := Load(path)
	if cfg.MaxHistory != 25 {
		t.Errorf("MaxHistory = %d", cfg.MaxHistory)
	}
	if cfg.DefaultContext != 3 {
		t.Errorf("DefaultContext = %d", cfg.DefaultContext)
	}
	if cfg.OutputPath != "/tmp/dbg.txt" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"history": {"max": `)

	cfg := Load(path)
	if cfg.MaxHistory != 50 {
		t.Errorf("malformed file should keep defaults, MaxHistory = %d", cfg.MaxHistory)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"display": {"context": 3}, "logging": {"level": "debug"}}`)

	t.Setenv(EnvContext, "7")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvOutput, "/tmp/over.txt")

	cfg := Load(path)
	if cfg.DefaultContext != 7 {
		t.Errorf("env should win, DefaultContext = %d", cfg.DefaultContext)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env should win, LogLevel = %q", cfg.LogLevel)
	}
	if cfg.OutputPath != "/tmp/over.txt" {
		t.Errorf("env should win, OutputPath = %q", cfg.OutputPath)
	}
}

func TestEnvBadNumbersIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHistory, "lots")
	t.Setenv(EnvContext, "-4")

	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.MaxHistory != 50 || cfg.DefaultContext != 0 {
		t.Errorf("bad env numbers should be ignored: %+v", cfg)
	}
}

func TestSaveContextCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	if err := SaveContext(path, 4); err != nil {
		t.Fatalf("SaveContext: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := gjson.GetBytes(data, "display.context").Int(); got != 4 {
		t.Errorf("display.context = %d, want 4", got)
	}
}

func TestSaveContextPreservesOtherSettings(t *testing.T) {
	path := writeConfig(t, `{"history": {"max": 25}, "display": {"context": 1}}`)

	if err := SaveContext(path, 9); err != nil {
		t.Fatalf("SaveContext: %v", err)
	}

	data, _ := os.ReadFile(path)
	if got := gjson.GetBytes(data, "history.max").Int(); got != 25 {
		t.Errorf("history.max lost on save: %d", got)
	}
	if got := gjson.GetBytes(data, "display.context").Int(); got != 9 {
		t.Errorf("display.context = %d, want 9", got)
	}
}
