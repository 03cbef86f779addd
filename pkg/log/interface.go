// Package log provides structured logging for adoptml pipeline operations.
//
// The package defines a minimal Logger interface with structured key-value
// fields, standard attribute keys for machine learning context (model name,
// operation, data shape, metrics), and a zerolog-backed implementation. The
// interface is implementation-agnostic so tests can capture output through a
// buffer-backed provider.
package log

// Logger defines a structured logging interface with leveled methods and
// key-value fields.
//
// With returns a contextual logger with pre-populated fields, so a component
// can bind its identity once:
//
//	logger := provider.GetLoggerWithName("DecisionTree").With(
//	    log.OperationKey, "fit",
//	)
//	logger.Info("training started", log.SamplesKey, 1000)
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs potentially problematic situations that do not stop execution.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If a field value is an error carrying a
	// stack trace, the trace is included in the emitted record.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ToLogLevel converts a level name ("debug", "info", "warn", "error") to a
// Level. Unknown names map to LevelInfo.
func ToLogLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerProvider creates and configures loggers. It exists for dependency
// injection: production code uses the zerolog provider, tests use a
// buffer-backed one.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger bound to a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}
