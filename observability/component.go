package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/lyrebird/component"
	"github.com/kbukum/lyrebird/logger"
)

// Component installs the tracer and meter providers on Start and flushes
// them on Stop.
type Component struct {
	cfg     Config
	res     Resource
	log     *logger.Logger
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, res Resource, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, res: res, log: log.WithComponent("observability")}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Metrics returns the instruments. They are no-ops while telemetry is disabled.
func (c *Component) Metrics() *Metrics { return c.metrics }

// Start installs the providers when enabled and creates the instruments.
func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if c.cfg.Enabled {
		tp, err := InitTracer(ctx, c.cfg, c.res)
		if err != nil {
			return fmt.Errorf("observability start: %w", err)
		}
		mp, err := InitMeter(ctx, c.cfg, c.res)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return fmt.Errorf("observability start: %w", err)
		}
		c.tp, c.mp = tp, mp
		c.log.Info("telemetry enabled", logger.Fields(
			"endpoint", c.cfg.Endpoint,
			"sample_rate", c.cfg.SampleRate,
		))
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		return fmt.Errorf("observability start: %w", err)
	}
	c.metrics = m
	return nil
}

// Stop flushes pending spans and metrics.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health is always healthy. Export failures surface in the exporters' own logs.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

// Describe returns summary info for the startup banner.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "observability", Details: details}
}
