// Package config loads, validates, and normalizes the TOML configuration
// consumed by the CLI and daemon. Paths are tilde-expanded and made
// absolute at load time; a missing config file falls back to defaults.
package config
