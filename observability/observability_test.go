package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/lyrebird/logger"
)

func TestConfig_Defaults(t *testing.T) {
	c := Config{}
	c.ApplyDefaults()
	if c.Endpoint != "localhost:4318" || c.SampleRate != 1.0 || c.MetricInterval == 0 {
		t.Errorf("unexpected defaults %+v", c)
	}
	c.SampleRate = 2
	if err := c.Validate(); err == nil {
		t.Error("expected error for sample rate > 1")
	}
}

func TestStartOperation_RecordsSpanAndMetric(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prevTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(prevTP)
		_ = tp.Shutdown(context.Background())
	}()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	_, op := StartOperation(ctx, metrics, "dictation.format")
	op.End(ctx, errors.New("upstream down"))

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "dictation.format" {
		t.Fatalf("unexpected spans %+v", spans)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := counterValue(rm, "lyrebird.operation.total"); got != 1 {
		t.Errorf("operation.total = %d, want 1", got)
	}
}

func TestMetrics_DomainCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, _ := NewMetrics(mp.Meter("test"))

	ctx := context.Background()
	m.DictationCreated(ctx)
	m.PreferenceExtracted(ctx)
	m.ExtractionFailed(ctx)
	m.ExtractionFailed(ctx)

	var rm metricdata.ResourceMetrics
	_ = reader.Collect(ctx, &rm)
	if got := counterValue(rm, "lyrebird.preferences.extraction_failures"); got != 2 {
		t.Errorf("extraction_failures = %d, want 2", got)
	}
	if got := counterValue(rm, "lyrebird.dictations.created"); got != 1 {
		t.Errorf("dictations.created = %d, want 1", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.DictationCreated(ctx)
	m.ExtractionFailed(ctx)
	_, op := StartOperation(ctx, nil, "noop")
	op.End(ctx, nil)
}

func TestNewMetrics_Noop(t *testing.T) {
	if _, err := NewMetrics(noop.NewMeterProvider().Meter("test")); err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(Config{}, Resource{ServiceName: "lyrebird"}, logger.NewNop())
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Metrics() == nil {
		t.Error("expected metrics even when disabled")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("unexpected description %+v", d)
	}
}

func TestTraceID(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Error("expected empty trace id without span")
	}
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("t").Start(context.Background(), "s")
	defer span.End()
	if len(TraceID(ctx)) != 32 {
		t.Errorf("unexpected trace id %q", TraceID(ctx))
	}
}

func counterValue(rm metricdata.ResourceMetrics, name string) int64 {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return -1
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}
