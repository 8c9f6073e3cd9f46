/*
PURPOSE:
  Provides the structured logger for the release and merge tools.
  Wraps slog for consistent diagnostic output.

REQUIREMENTS:
  User-specified:
  - Operator-facing text stays on the Printer; the logger is for tracing.

  Implementation-discovered:
  - --verbose switches to debug level so every subprocess is traced.

ARCHITECTURE INTEGRATION:
  - Used by: internal/execx, internal/cli, procedures.

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Use `log/slog`.
  - Log to stderr so captured stdout stays clean.

USAGE:
  output.Logger.Debug("exec", "cmd", "git")
*/

package output

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelWarn)
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLogger replaces the default logger, e.g. to capture output in tests.
func SetLogger(l *slog.Logger) {
	Logger = l
}

// SetVerbose lowers the default logger's level to debug.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelWarn)
}
