package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dkoosis/quiet/internal/history"
	"github.com/dkoosis/quiet/pkg/quiet"
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user passed the flag explicitly.
type CliFlags struct {
	ConfigFile string
	Theme      string
	NoColor    bool
	CI         bool
	Clear      string
	TUI        bool
	NoHistory  bool
	Debug      bool

	NoColorSet   bool
	CISet        bool
	TUISet       bool
	NoHistorySet bool
	DebugSet     bool
}

// ResolvedConfig is the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Theme     quiet.Theme
	ThemeName string
	Clear     quiet.ClearMode

	NoColor     bool
	CI          bool
	TUI         bool
	Debug       bool
	History     bool
	HistoryPath string

	// Resolution metadata (for debugging)
	ConfigFile    string
	ThemeSource   string // "cli", "env", "file", "default"
	NoColorSource string // "cli", "env", "file", "default"
}

// ResolveConfig resolves configuration from all sources: CLI > env > file > defaults.
func ResolveConfig(cli CliFlags) (*ResolvedConfig, error) {
	appCfg, path, err := LoadConfig(cli.ConfigFile)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		ThemeName:     appCfg.Theme,
		NoColor:       appCfg.NoColor,
		CI:            appCfg.CI,
		TUI:           appCfg.TUI,
		Debug:         appCfg.Debug,
		History:       appCfg.History == nil || *appCfg.History,
		HistoryPath:   appCfg.HistoryPath,
		ConfigFile:    path,
		ThemeSource:   "file",
		NoColorSource: "file",
	}
	if path == "" {
		resolved.ThemeSource = "default"
		resolved.NoColorSource = "default"
	}

	// Theme: CLI > ENV > file > default
	switch {
	case cli.Theme != "":
		resolved.ThemeName = cli.Theme
		resolved.ThemeSource = "cli"
	case os.Getenv("QUIET_THEME") != "":
		resolved.ThemeName = os.Getenv("QUIET_THEME")
		resolved.ThemeSource = "env"
	}

	// NoColor: CLI > ENV > file > default. NO_COLOR disables color when set to anything.
	if cli.NoColorSet {
		resolved.NoColor = cli.NoColor
		resolved.NoColorSource = "cli"
	} else if v := getEnvBool("QUIET_NO_COLOR"); v != nil {
		resolved.NoColor = *v
		resolved.NoColorSource = "env"
	} else if os.Getenv("NO_COLOR") != "" {
		resolved.NoColor = true
		resolved.NoColorSource = "env"
	}

	if cli.CISet {
		resolved.CI = cli.CI
	} else if v := getEnvBool("QUIET_CI", "CI"); v != nil {
		resolved.CI = *v
	}

	if cli.DebugSet {
		resolved.Debug = cli.Debug
	} else if os.Getenv("QUIET_DEBUG") != "" {
		resolved.Debug = true
	}

	if cli.TUISet {
		resolved.TUI = cli.TUI
	}
	if cli.NoHistorySet {
		resolved.History = !cli.NoHistory
	}

	clearMode := appCfg.Clear
	if env := os.Getenv("QUIET_CLEAR"); env != "" {
		clearMode = env
	}
	if cli.Clear != "" {
		clearMode = cli.Clear
	}
	resolved.Clear, err = quiet.ParseClearMode(clearMode)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if resolved.History && resolved.HistoryPath == "" {
		resolved.HistoryPath, err = history.DefaultPath()
		if err != nil {
			resolved.History = false
		}
	}

	// CI mode implies no color, no clearing and no interactive display.
	if resolved.CI {
		resolved.NoColor = true
		resolved.Clear = quiet.ClearNever
		resolved.TUI = false
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	resolved.Theme = quiet.ThemeByName(resolved.ThemeName)
	if resolved.NoColor {
		resolved.Theme = quiet.MonoTheme()
	}
	return resolved, nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func validateResolvedConfig(cfg *ResolvedConfig) error {
	switch cfg.ThemeName {
	case "default", "orca", "mono":
	default:
		return fmt.Errorf("invalid theme: %s (must be: default, orca, mono)", cfg.ThemeName)
	}
	if cfg.TUI && cfg.Clear == quiet.ClearNever {
		return fmt.Errorf("clear: never cannot be combined with the tui display")
	}
	return nil
}
