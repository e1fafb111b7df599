// Package logging provides slog construction with console and JSON handlers
// plus small attribute helpers shared across the client.
package logging
