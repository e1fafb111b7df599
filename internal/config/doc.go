// Package config loads, normalizes, and validates the TOML configuration for
// the Plaza client.
package config
