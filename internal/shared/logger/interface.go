package logger

import (
	"log/slog"
	"os"
)

// Interface is the logger injected into use cases, handlers and
// infrastructure. Arguments are alternating key/value pairs.
type Interface interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	// Fatalw logs at error level and exits the process.
	Fatalw(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Interface
}

type slogLogger struct {
	logger *slog.Logger
}

func NewLogger() Interface {
	return &slogLogger{logger: Get()}
}

func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogLogger{logger: l}
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...interface{}) {
	logAt(l.logger, slog.LevelDebug, msg, keysAndValues)
}

func (l *slogLogger) Infow(msg string, keysAndValues ...interface{}) {
	logAt(l.logger, slog.LevelInfo, msg, keysAndValues)
}

func (l *slogLogger) Warnw(msg string, keysAndValues ...interface{}) {
	logAt(l.logger, slog.LevelWarn, msg, keysAndValues)
}

func (l *slogLogger) Errorw(msg string, keysAndValues ...interface{}) {
	logAt(l.logger, slog.LevelError, msg, keysAndValues)
}

func (l *slogLogger) Fatalw(msg string, keysAndValues ...interface{}) {
	logAt(l.logger, slog.LevelError, msg, keysAndValues)
	os.Exit(1)
}

func (l *slogLogger) With(keysAndValues ...interface{}) Interface {
	return &slogLogger{logger: l.logger.With(keysAndValues...)}
}

// NewNop returns a logger that discards everything.
func NewNop() Interface {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debugw(string, ...interface{})   {}
func (nopLogger) Infow(string, ...interface{})    {}
func (nopLogger) Warnw(string, ...interface{})    {}
func (nopLogger) Errorw(string, ...interface{})   {}
func (nopLogger) Fatalw(string, ...interface{})   {}
func (l nopLogger) With(...interface{}) Interface { return l }
