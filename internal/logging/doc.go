// Package logging builds the slog loggers used across Waymark: a JSON
// handler for machine consumption and a compact console handler for
// interactive sessions, with color decided by terminal detection.
package logging
