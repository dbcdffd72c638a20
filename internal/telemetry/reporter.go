package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reporter sends infrastructure errors to the telemetry sink
type Reporter interface {
	Capture(ctx context.Context, err error)
}

type spanReporter struct {
	log *zap.Logger
}

// NewReporter records errors on the span carried by ctx and logs them.
func NewReporter(log *zap.Logger) Reporter {
	return &spanReporter{log: log}
}

func (r *spanReporter) Capture(ctx context.Context, err error) {
	if err == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	sc := span.SpanContext()
	r.log.Error("captured error",
		zap.Error(err),
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
