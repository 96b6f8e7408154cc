// Package logger configures the process-wide slog logger.  Records are
// written as JSON and carry the trace and span ids of the active span.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

type OtelHandler struct {
	next slog.Handler
}

func NewOtelHandler(next slog.Handler) *OtelHandler {
	return &OtelHandler{next: next}
}

func (h *OtelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *OtelHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *OtelHandler) WithGroup(name string) slog.Handler {
	return NewOtelHandler(h.next.WithGroup(name))
}

func (h *OtelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOtelHandler(h.next.WithAttrs(attrs))
}

// New builds a JSON logger writing to w.  Debug records are enabled
// outside production.
func New(w io.Writer, serviceName, env string) *slog.Logger {
	level := slog.LevelDebug
	if env == "prod" || env == "production" {
		level = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewOtelHandler(h)).With(
		slog.String("service", serviceName),
		slog.String("env", env),
	)
}

// SetupGlobalHandler installs New(os.Stdout, ...) as the default logger.
func SetupGlobalHandler(serviceName, env string) *slog.Logger {
	l := New(os.Stdout, serviceName, env)
	slog.SetDefault(l)
	l.Info("logger initialized")
	return l
}
