// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: it returns the logger the
// request middleware injected, already tagged with request_id, method and
// path, so every line a handler or service writes is correlated:
//
//	log := logger.WithCtx(ctx)
//	log.Info("donation recorded", "id", d.ID)
//	// → time=... level=INFO msg="donation recorded" request_id=a1b2c3d4 id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Setup replaces L for the given APP_ENV. Deployed environments get JSON at
// INFO, everything else human-readable text at DEBUG. Extra handlers (the
// Mongo sink) receive every record the console handler accepts.
func Setup(env string, extra ...slog.Handler) *slog.Logger {
	L = slog.New(newHandler(os.Stdout, env, extra...))
	slog.SetDefault(L)
	return L
}

func newHandler(w io.Writer, env string, extra ...slog.Handler) slog.Handler {
	var handler slog.Handler

	switch strings.ToLower(env) {
	case "local", "development", "dev", "test", "testing", "":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	if len(extra) == 0 {
		return handler
	}
	return NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// LevelForStatus picks the access-log level for an HTTP status.
func LevelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
