package log

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// zerologProvider is the production LoggerProvider, emitting JSON records
// through rs/zerolog.
type zerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider creates a LoggerProvider writing to stderr at the given
// minimum level.
func NewZerologProvider(level Level) LoggerProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a LoggerProvider writing to w. Used by
// tests to capture output.
func NewZerologProviderWithWriter(w io.Writer, level Level) LoggerProvider {
	root := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologProvider{root: root}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// GetLogger returns the default logger instance.
func (p *zerologProvider) GetLogger() Logger {
	return &zerologLogger{logger: p.root}
}

// GetLoggerWithName returns a logger bound to a component name.
func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.root.With().Str(ComponentKey, name).Logger()}
}

// SetLevel sets the minimum level for loggers created by this provider.
func (p *zerologProvider) SetLevel(level Level) {
	p.root = p.root.Level(toZerologLevel(level))
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

// emit applies key-value fields to a zerolog event. A bare error value (no
// preceding key) is attached under the standard error key together with its
// stack trace when one is available.
func emit(event *zerolog.Event, msg string, fields []any) {
	i := 0
	for i < len(fields) {
		if err, ok := fields[i].(error); ok {
			event = event.Err(err)
			if trace := extractStacktrace(err); trace != "" {
				event = event.Str(StacktraceKey, trace)
			}
			i++
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		case error:
			event = event.AnErr(key, v)
			if trace := extractStacktrace(v); trace != "" {
				event = event.Str(StacktraceKey, trace)
			}
		default:
			event = event.Interface(key, fields[i+1])
		}
		i += 2
	}
	event.Msg(msg)
}

// extractStacktrace pulls the safe stack trace details recorded by
// cockroachdb/errors, if any.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
