// Package config loads the optional ptygen configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/PiranhaCodes/ptygen/internal/pty"
)

// DefaultPath is where the config file is looked up when no --config flag is given.
const DefaultPath = "~/.ptygen/config.yml"

// Config holds the settings for a ptygen run. The zero value is not valid;
// use Default.
type Config struct {
	// Hold selects what happens after the path is printed: "spin" keeps a
	// core busy forever, "block" waits for SIGINT/SIGTERM.
	Hold  string `yaml:"hold"`
	Debug bool   `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Hold: string(pty.HoldSpin)}
}

// HoldMode returns the validated hold mode. An empty value means spin.
func (c Config) HoldMode() (pty.HoldMode, error) {
	return pty.ParseHoldMode(c.Hold)
}

// Load reads the config file at path, layering it over Default. A missing
// file is not an error; found reports whether the file existed.
func Load(path string) (cfg Config, found bool, err error) {
	cfg = Default()

	expanded, err := ExpandPath(path)
	if err != nil {
		return cfg, false, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("failed to read config %s: %w", expanded, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, true, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}

	mode, err := cfg.HoldMode()
	if err != nil {
		return cfg, true, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	cfg.Hold = string(mode)

	return cfg, true, nil
}

// ExpandPath expands the tilde (~) character to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == '/' || path[1] == '\\' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	return path, nil
}
