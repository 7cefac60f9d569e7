package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Format selects the slog handler used by Setup.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatOTel   Format = "otel"
)

type Options struct {
	Level       string
	Format      Format
	Output      io.Writer
	ServiceName string
	AddSource   bool
}

// ParseLevel accepts debug|info|warn|error and falls back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewHandler builds the handler for the given options without touching the default logger.
func NewHandler(opts Options) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	switch opts.Format {
	case FormatPretty:
		return NewPrettyHandler(opts.Output, handlerOpts)
	case FormatJSON:
		return NewTraceHandler(slog.NewJSONHandler(opts.Output, handlerOpts))
	case FormatOTel:
		return otelslog.NewHandler(opts.ServiceName, otelslog.WithLoggerProvider(global.GetLoggerProvider()))
	default:
		return NewTraceHandler(slog.NewTextHandler(opts.Output, handlerOpts))
	}
}

// Setup installs the handler as the process default.
func Setup(opts Options) *slog.Logger {
	l := slog.New(NewHandler(opts))
	slog.SetDefault(l)
	return l
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).DebugContext(ctx, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).InfoContext(ctx, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WarnContext(ctx, msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).ErrorContext(ctx, msg, args...)
}
