package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig maps console.toml keys to console settings.
type fileConfig struct {
	Addr    string `toml:"addr"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
	LogFile string `toml:"log_file"`
	Verbose bool   `toml:"verbose"`
}

// consoleConfig holds the resolved console settings after the config file
// and command-line flags have been merged.
type consoleConfig struct {
	Addr    string
	Model   string
	Timeout time.Duration
	LogFile string
	Verbose bool
	Demo    bool
}

// defaultConsoleConfig returns the built-in defaults.
func defaultConsoleConfig() consoleConfig {
	return consoleConfig{
		Model:   "Grand_Concerto",
		Timeout: time.Second,
	}
}

// loadConsoleConfig loads a TOML config file over the defaults. Keys not
// present in the file keep their default value.
func loadConsoleConfig(path string) (consoleConfig, error) {
	cfg := defaultConsoleConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return consoleConfig{}, fmt.Errorf("load console config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("model") {
		cfg.Model = strings.TrimSpace(raw.Model)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return consoleConfig{}, fmt.Errorf("load console config: invalid timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return consoleConfig{}, fmt.Errorf("load console config: unknown keys: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}
