package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a global meter provider that periodically exports to
// the OTLP/HTTP endpoint. Shut it down on exit.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the application meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the application's instruments. A nil *Metrics records nothing.
type Metrics struct {
	operationTotal       metric.Int64Counter
	operationDuration    metric.Float64Histogram
	dictationsCreated    metric.Int64Counter
	preferencesExtracted metric.Int64Counter
	extractionFailures   metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.operationTotal, err = meter.Int64Counter("lyrebird.operation.total",
		metric.WithDescription("Completed operations by name and status")); err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}
	if m.operationDuration, err = meter.Float64Histogram("lyrebird.operation.duration",
		metric.WithDescription("Operation duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}
	if m.dictationsCreated, err = meter.Int64Counter("lyrebird.dictations.created",
		metric.WithDescription("Dictations transcribed, formatted and stored")); err != nil {
		return nil, fmt.Errorf("creating dictations.created counter: %w", err)
	}
	if m.preferencesExtracted, err = meter.Int64Counter("lyrebird.preferences.extracted",
		metric.WithDescription("New preferences learned from edits")); err != nil {
		return nil, fmt.Errorf("creating preferences.extracted counter: %w", err)
	}
	if m.extractionFailures, err = meter.Int64Counter("lyrebird.preferences.extraction_failures",
		metric.WithDescription("Extraction calls that failed and were treated as no preference")); err != nil {
		return nil, fmt.Errorf("creating preferences.extraction_failures counter: %w", err)
	}
	return &m, nil
}

// RecordOperation records one finished operation.
func (m *Metrics) RecordOperation(ctx context.Context, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
	m.operationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
	))
}

// DictationCreated counts a stored dictation.
func (m *Metrics) DictationCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.dictationsCreated.Add(ctx, 1)
}

// PreferenceExtracted counts a stored preference.
func (m *Metrics) PreferenceExtracted(ctx context.Context) {
	if m == nil {
		return
	}
	m.preferencesExtracted.Add(ctx, 1)
}

// ExtractionFailed counts a soft extraction failure.
func (m *Metrics) ExtractionFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.extractionFailures.Add(ctx, 1)
}
