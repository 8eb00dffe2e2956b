package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "console.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConsoleConfig(t *testing.T) {
	path := writeConfigFile(t, `
addr = "192.168.1.50:4999"
model = "Essentia_G"
timeout = "2s"
log_file = "session.nlog"
verbose = true
`)

	cfg, err := loadConsoleConfig(path)
	if err != nil {
		t.Fatalf("loadConsoleConfig failed: %v", err)
	}

	if cfg.Addr != "192.168.1.50:4999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Model != "Essentia_G" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.LogFile != "session.nlog" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoadConsoleConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `addr = "bridge.local:4999"`)

	cfg, err := loadConsoleConfig(path)
	if err != nil {
		t.Fatalf("loadConsoleConfig failed: %v", err)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Model != "Grand_Concerto" {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("Timeout = %v, want default", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoadConsoleConfigInvalidTimeout(t *testing.T) {
	path := writeConfigFile(t, `timeout = "fast"`)

	if _, err := loadConsoleConfig(path); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestLoadConsoleConfigUnknownKey(t *testing.T) {
	path := writeConfigFile(t, `adress = "typo:4999"`)

	if _, err := loadConsoleConfig(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadConsoleConfigMissingFile(t *testing.T) {
	if _, err := loadConsoleConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
