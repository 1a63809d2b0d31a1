// Package logger is the process-wide structured logger: tint on terminals,
// JSON when configured, caller locations on warnings and errors, and
// credential masking on every record.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/Tatu1984/hrms-sub001/internal/shared/config"
)

var (
	mu    sync.RWMutex
	base  *slog.Logger
	level = new(slog.LevelVar)
)

// Init installs the logger described by cfg. In "debug" server mode every
// record carries its source location.
func Init(cfg *config.LoggerConfig, mode string) error {
	level.Set(ParseLevel(cfg.Level))

	w, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	sourceFrom := slog.LevelWarn
	if mode == "debug" {
		sourceFrom = slog.LevelDebug
	}

	install(slog.New(newHandler(w, cfg.Format, sourceFrom)))
	return nil
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(path string) (io.Writer, error) {
	switch strings.ToLower(path) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func newHandler(w io.Writer, format string, sourceFrom slog.Level) slog.Handler {
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  time.DateTime,
			NoColor:     !isTerminal(w),
			ReplaceAttr: colorizeError,
		})
	}
	return redactHandler{Handler: sourceHandler{Handler: h, min: sourceFrom}}
}

func colorizeError(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" && a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			return tint.Err(err)
		}
	}
	return a
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func install(l *slog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
	slog.SetDefault(l)
}

// Get returns the installed logger, falling back to a console logger on
// stdout when Init has not run.
func Get() *slog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	if l != nil {
		return l
	}
	l = slog.New(newHandler(os.Stdout, "text", slog.LevelWarn))
	install(l)
	return l
}

func Debug(msg string, args ...any) { logAt(Get(), slog.LevelDebug, msg, args) }
func Info(msg string, args ...any)  { logAt(Get(), slog.LevelInfo, msg, args) }
func Warn(msg string, args ...any)  { logAt(Get(), slog.LevelWarn, msg, args) }
func Error(msg string, args ...any) { logAt(Get(), slog.LevelError, msg, args) }

// Sync is kept for call sites that flush on shutdown; slog writes through.
func Sync() error {
	return nil
}

// logAt emits through l with the PC of the function two frames above it, so
// source locations point at the caller rather than this package.
func logAt(l *slog.Logger, lvl slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.Enabled(ctx, lvl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}
