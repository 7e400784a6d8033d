package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file looked up on disk.
const FileName = ".quiet.yaml"

// Defaults.
const (
	DefaultTheme = "default"
	DefaultClear = "auto"
)

// AppConfig is the content of a .quiet.yaml file.
type AppConfig struct {
	Theme       string `yaml:"theme,omitempty"`
	NoColor     bool   `yaml:"no_color"`
	CI          bool   `yaml:"ci"`
	Clear       string `yaml:"clear,omitempty"`
	History     *bool  `yaml:"history,omitempty"`
	HistoryPath string `yaml:"history_path,omitempty"`
	Debug       bool   `yaml:"debug"`
	TUI         bool   `yaml:"tui"`
}

// LoadConfig reads the config file at path, or discovers one when path is
// empty. A missing file yields the defaults. Returns the path actually read.
func LoadConfig(path string) (*AppConfig, string, error) {
	cfg := &AppConfig{
		Theme: DefaultTheme,
		Clear: DefaultClear,
	}

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, "", nil
		}
		return nil, "", fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fileCfg.Theme != "" {
		cfg.Theme = fileCfg.Theme
	}
	if fileCfg.Clear != "" {
		cfg.Clear = fileCfg.Clear
	}
	cfg.NoColor = fileCfg.NoColor
	cfg.CI = fileCfg.CI
	cfg.History = fileCfg.History
	cfg.HistoryPath = fileCfg.HistoryPath
	cfg.Debug = fileCfg.Debug
	cfg.TUI = fileCfg.TUI
	return cfg, path, nil
}

// getConfigPath looks for .quiet.yaml in the working directory first, then
// in the user config directory.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	userPath := filepath.Join(configHome, "quiet", FileName)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}
	return ""
}
