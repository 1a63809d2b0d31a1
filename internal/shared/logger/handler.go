package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach the output verbatim. Bearer tokens show up in
// auth failures and DSNs carry the database password.
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"token":         {},
	"password":      {},
	"secret":        {},
	"dsn":           {},
}

// sourceHandler adds the caller location to records at or above min. The
// wrapped handler must be built with AddSource disabled.
type sourceHandler struct {
	slog.Handler
	min slog.Level
}

func (h sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.min && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.Handler.Handle(ctx, r)
}

func (h sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sourceHandler{Handler: h.Handler.WithAttrs(attrs), min: h.min}
}

func (h sourceHandler) WithGroup(name string) slog.Handler {
	return sourceHandler{Handler: h.Handler.WithGroup(name), min: h.min}
}

// redactHandler masks the values of sensitiveKeys, including inside groups
// and attributes bound with With.
type redactHandler struct {
	slog.Handler
}

func (h redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.Handler.Handle(ctx, out)
}

func (h redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return redactHandler{Handler: h.Handler.WithAttrs(masked)}
}

func (h redactHandler) WithGroup(name string) slog.Handler {
	return redactHandler{Handler: h.Handler.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = redact(ga)
		}
		return slog.Group(a.Key, masked...)
	}
	return a
}
