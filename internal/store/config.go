package store

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// GlobalConfig holds user preferences that live outside the tracker
// database (~/.tempo/config.yaml).
type GlobalConfig struct {
	// DataDir overrides where tracker.sqlite3 lives. Empty means the
	// default data dir.
	DataDir string `yaml:"dataDir,omitempty"`

	// ReportRangeDays is the default report window when no from/to filter
	// is given. Zero means 7 (last week), matching the report screen's
	// default.
	ReportRangeDays int `yaml:"reportRangeDays,omitempty"`

	// TUI holds optional preferences for the interactive TUI.
	TUI *TUIConfig `yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces "light" or "dark"; empty means auto-detect.
	Theme string `yaml:"theme,omitempty"`
}

// ConfigDir returns ~/.tempo, honoring TEMPO_CONFIG_DIR (used by tests).
func ConfigDir() (string, error) {
	if v := os.Getenv("TEMPO_CONFIG_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tempo"), nil
}

// LoadConfig reads the global config. A missing file yields the zero
// config, not an error.
func LoadConfig() (GlobalConfig, error) {
	dir, err := ConfigDir()
	if err != nil {
		return GlobalConfig{}, err
	}
	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return GlobalConfig{}, nil
		}
		return GlobalConfig{}, err
	}
	var cfg GlobalConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return GlobalConfig{}, err
	}
	return cfg, nil
}

// SaveConfig writes the global config, creating the config dir if needed.
func SaveConfig(cfg GlobalConfig) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFileName), b, 0o644)
}
