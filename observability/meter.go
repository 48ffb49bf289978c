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

	"github.com/kbukum/gorx/logger"
)

// MeterConfig configures metric export.
type MeterConfig struct {
	ExportConfig `yaml:",inline" mapstructure:",squash"`
	// Interval is how often metrics are pushed; zero uses the SDK default.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// DefaultMeterConfig returns a disabled config pointing at a local
// collector with a 15s export interval.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ExportConfig: defaultExport(serviceName),
		Interval:     15 * time.Second,
	}
}

// InitMeter creates an OTLP/HTTP meter provider with a periodic reader and
// installs it as the global provider. Shut it down on exit to flush the
// last interval.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := config.Resource()
	if err != nil {
		return nil, err
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for producer subscriptions.
type Metrics struct {
	subscriptionActive   metric.Int64UpDownCounter
	subscriptionTotal    metric.Int64Counter
	subscriptionValues   metric.Int64Counter
	subscriptionDuration metric.Float64Histogram
	errorTotal           metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	subscriptionActive, err := meter.Int64UpDownCounter("subscription.active",
		metric.WithDescription("Number of currently open subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscription.active gauge: %w", err)
	}

	subscriptionTotal, err := meter.Int64Counter("subscription.total",
		metric.WithDescription("Total number of ended subscriptions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscription.total counter: %w", err)
	}

	subscriptionValues, err := meter.Int64Counter("subscription.values",
		metric.WithDescription("Total number of values delivered to subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscription.values counter: %w", err)
	}

	subscriptionDuration, err := meter.Float64Histogram("subscription.duration",
		metric.WithDescription("Lifetime of subscriptions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscription.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		subscriptionActive:   subscriptionActive,
		subscriptionTotal:    subscriptionTotal,
		subscriptionValues:   subscriptionValues,
		subscriptionDuration: subscriptionDuration,
		errorTotal:           errorTotal,
	}, nil
}

// RecordSubscribe increments the open subscription count.
func (m *Metrics) RecordSubscribe(ctx context.Context, stream string) {
	m.subscriptionActive.Add(ctx, 1, metric.WithAttributes(attribute.String("stream", stream)))
}

// RecordTerminal decrements open subscriptions and records how one ended.
func (m *Metrics) RecordTerminal(ctx context.Context, stream, outcome string, values int64, duration time.Duration) {
	streamAttr := metric.WithAttributes(attribute.String("stream", stream))
	m.subscriptionActive.Add(ctx, -1, streamAttr)
	m.subscriptionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stream", stream),
		attribute.String("outcome", outcome),
	))
	m.subscriptionValues.Add(ctx, values, streamAttr)
	m.subscriptionDuration.Record(ctx, duration.Seconds(), streamAttr)
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
