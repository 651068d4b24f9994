package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation is a traced and timed unit of work.
type Operation struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation opens a span named name. metrics may be nil.
func StartOperation(ctx context.Context, metrics *Metrics, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, attrs...)
	return ctx, &Operation{name: name, start: time.Now(), span: span, metrics: metrics}
}

// SetAttributes adds attributes to the span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End closes the span and records the duration. A non-nil err marks it failed.
func (o *Operation) End(ctx context.Context, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.SetAttributes(attribute.String(AttrStatus, status))
	o.span.End()
	o.metrics.RecordOperation(ctx, o.name, status, time.Since(o.start))
}
