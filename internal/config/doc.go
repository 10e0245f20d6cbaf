// Package config loads, normalizes, and validates Waymark's TOML
// configuration. Defaults live in defaults.go; Load resolves the config
// file (explicit flag, then ~/.config/waymark/config.toml, then
// ./waymark.toml), applies overrides, expands paths, and validates the
// result. A missing file yields the defaults.
package config
