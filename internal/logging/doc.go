// Package logging builds the slog loggers used across the daemon and CLI:
// a human-readable console handler (color when attached to a terminal) and
// a JSON handler for log files and machine consumption, plus attribute
// helpers and context-derived field propagation.
package logging
