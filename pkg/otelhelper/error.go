package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks a span as failed. Besides recording the error itself, it
// emits a scoutflow.error event carrying the caller's domain attributes plus
// the error message, so traces can be filtered on workflow or run keys
// without digging through exception stacks.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	eventAttrs := append(attrs, attribute.String("error.message", err.Error()))
	span.AddEvent("scoutflow.error", trace.WithAttributes(eventAttrs...))
}
