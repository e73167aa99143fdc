// Package logging wires log/slog with the handlers used across fridgectl.
// The console format keeps lines compact for interactive use; the json
// format suits piping the log file into other tooling.
package logging
