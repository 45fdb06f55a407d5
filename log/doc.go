// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
// Text output is styled with lipgloss when pretty printing is enabled and
// the writer is a terminal. JSON output always uses [slog.JSONHandler].
//
// Attributes can be attached to every message of a derived logger:
//
//	logger = logger.With(slog.String("file", path))
//
// In addition to the standard slog levels, [LevelTrace] sits below debug and
// is used for interpreter internals such as imports and function calls.
//
// The zero [Logger] discards all output.
package log
