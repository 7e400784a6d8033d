// Package config handles configuration loading and merging for quiet.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (-theme, -no-color, -ci, -clear, -tui, -no-history, -debug)
//  2. Environment variables (QUIET_THEME, QUIET_NO_COLOR, NO_COLOR, QUIET_CI, CI,
//     QUIET_CLEAR, QUIET_DEBUG)
//  3. YAML config file (.quiet.yaml in the working directory, then
//     <user config dir>/quiet/.quiet.yaml)
//  4. Hardcoded defaults
//
// # CI Mode
//
// CI mode (via -ci, CI=true, or ci: true) implies no color and never clearing
// the screen, so every frame is appended to the log.
package config
