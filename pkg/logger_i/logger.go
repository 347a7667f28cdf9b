package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/akolanti/DocQuery/internal/config"
)

type Logger struct {
	inner *slog.Logger
}

// Init installs the process-wide slog handler. Prod logs JSON at config.LOG_LEVEL_PROD,
// everything else logs text at debug.
func Init(isProd bool) {
	InitWriter(isProd, os.Stdout)
}

// InitWriter is Init with a caller-chosen sink, e.g. stderr when stdout carries a protocol.
func InitWriter(isProd bool, w io.Writer) {
	options := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	var handler slog.Handler
	if isProd {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// WithTrace tags the logger with the trace id carried by ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	trace, ok := ctx.Value(config.TRACE_ID_KEY).(string)
	if !ok || trace == "" {
		return l
	}
	return l.With("traceId", trace)
}
