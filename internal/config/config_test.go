package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/quiet/pkg/quiet"
)

// isolate runs the test in an empty directory with a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if chErr := os.Chdir(dir); chErr != nil {
		t.Fatal(chErr)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{"QUIET_THEME", "QUIET_NO_COLOR", "NO_COLOR", "QUIET_CI", "CI", "QUIET_CLEAR", "QUIET_DEBUG"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultClear, cfg.Clear)
	assert.Nil(t, cfg.History)
}

func TestLoadConfig_LocalFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, FileName), "theme: orca\nclear: never\nhistory: false\n")

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, FileName, path)
	assert.Equal(t, "orca", cfg.Theme)
	assert.Equal(t, "never", cfg.Clear)
	require.NotNil(t, cfg.History)
	assert.False(t, *cfg.History)
}

func TestLoadConfig_UserConfigDir(t *testing.T) {
	dir := isolate(t)
	userPath := filepath.Join(dir, "xdg", "quiet", FileName)
	writeConfig(t, userPath, "theme: mono\n")

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, userPath, path)
	assert.Equal(t, "mono", cfg.Theme)
}

func TestLoadConfig_ExplicitMissingFileIsAnError(t *testing.T) {
	dir := isolate(t)

	_, _, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, FileName), "theme: [unclosed\n")

	_, _, err := LoadConfig("")
	assert.ErrorContains(t, err, "parsing config file")
}

func TestResolveConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.ThemeName)
	assert.Equal(t, "default", cfg.ThemeSource)
	assert.Equal(t, quiet.ClearAuto, cfg.Clear)
	assert.False(t, cfg.NoColor)
	assert.True(t, cfg.History)
	assert.Equal(t, filepath.Join(dir, "cache", "quiet", "history.db"), cfg.HistoryPath)
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, FileName), "theme: orca\nclear: always\n")
	t.Setenv("QUIET_THEME", "mono")
	t.Setenv("QUIET_CLEAR", "never")

	cfg, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.ThemeName)
	assert.Equal(t, "env", cfg.ThemeSource)
	assert.Equal(t, quiet.ClearNever, cfg.Clear)

	cfg, err = ResolveConfig(CliFlags{Theme: "default", Clear: "always"})
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.ThemeName)
	assert.Equal(t, "cli", cfg.ThemeSource)
	assert.Equal(t, quiet.ClearAlways, cfg.Clear)
}

func TestResolveConfig_NoColor(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "yes")

	cfg, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "env", cfg.NoColorSource)
	assert.Equal(t, "mono", cfg.Theme.Name)

	cfg, err = ResolveConfig(CliFlags{NoColor: false, NoColorSet: true})
	require.NoError(t, err)
	assert.False(t, cfg.NoColor)
	assert.Equal(t, "cli", cfg.NoColorSource)
}

func TestResolveConfig_CIImpliesPlainOutput(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")

	cfg, err := ResolveConfig(CliFlags{TUI: true, TUISet: true})
	require.NoError(t, err)
	assert.True(t, cfg.CI)
	assert.True(t, cfg.NoColor)
	assert.False(t, cfg.TUI)
	assert.Equal(t, quiet.ClearNever, cfg.Clear)
}

func TestResolveConfig_Invalid(t *testing.T) {
	isolate(t)

	_, err := ResolveConfig(CliFlags{Theme: "neon"})
	assert.ErrorContains(t, err, "invalid theme")

	_, err = ResolveConfig(CliFlags{Clear: "sometimes"})
	assert.ErrorContains(t, err, "unknown clear mode")

	_, err = ResolveConfig(CliFlags{TUI: true, TUISet: true, Clear: "never"})
	assert.Error(t, err)
}

func TestResolveConfig_NoHistoryFlag(t *testing.T) {
	isolate(t)

	cfg, err := ResolveConfig(CliFlags{NoHistory: true, NoHistorySet: true})
	require.NoError(t, err)
	assert.False(t, cfg.History)
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}
