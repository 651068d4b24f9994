// Package observability wires OpenTelemetry tracing and metrics over
// OTLP/HTTP. When disabled the global no-op providers stay in place, so
// spans and counters cost nothing.
//
//	ctx, op := observability.StartOperation(ctx, metrics, "dictation.transcribe")
//	text, err := transcribe(ctx)
//	op.End(ctx, err)
package observability
