package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/gstc/gstc"

// Tracer returns the gstc tracer from tp, or a no-op tracer when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// StartDispatch opens the span covering one command round trip.
func StartDispatch(ctx context.Context, tracer trace.Tracer, verb, request string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "gstc."+verb,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gstc.verb", verb),
			attribute.String("gstc.request", request),
		),
	)
}

// EndDispatch records the outcome on span and ends it.
func EndDispatch(span trace.Span, status int, err error) {
	span.SetAttributes(attribute.Int("gstc.status", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
