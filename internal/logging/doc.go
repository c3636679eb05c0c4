// Package logging assembles structured slog loggers for the fixtures tool.
//
// It owns the console and JSON handlers, routes CLI logs to the data
// directory's log file with warnings echoed to stderr, and exposes
// context helpers so registry and import code tag every line with the
// correlation id, fixture identifier, or import run id in play. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
