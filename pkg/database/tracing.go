package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/JobPortal/pkg/database"

// QueryTracer wraps database calls in client spans and logs queries slower
// than Threshold. A nil *QueryTracer still traces but never logs.
type QueryTracer struct {
	Threshold time.Duration
	Logger    *slog.Logger
}

// NewQueryTracer returns a tracer that warns on queries taking at least
// threshold. A zero threshold disables slow query logging.
func NewQueryTracer(threshold time.Duration, logger *slog.Logger) *QueryTracer {
	return &QueryTracer{Threshold: threshold, Logger: logger}
}

// Trace starts a span for a database operation. The returned function must
// be called when the operation completes:
//
//	ctx, end := r.tracer.Trace(ctx, "GetJob", q)
//	defer func() { end(err) }()
func (t *QueryTracer) Trace(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if t == nil || t.Threshold <= 0 || t.Logger == nil {
			return
		}
		if elapsed := time.Since(start); elapsed >= t.Threshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.String("statement", statement),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			t.Logger.WarnContext(ctx, "slow query detected", attrs...)
		}
	}
}
