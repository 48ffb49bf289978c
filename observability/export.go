package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const defaultEndpoint = "localhost:4318"

// ExportConfig says whether telemetry is exported, where to, and on behalf
// of which service. TracerConfig and MeterConfig embed it, so both signals
// share one shape in configuration files.
type ExportConfig struct {
	// Enabled turns export on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName, ServiceVersion and Environment identify the exporting
	// service; config.Load copies them from the service section when unset.
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP/HTTP collector host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
}

func defaultExport(serviceName string) ExportConfig {
	return ExportConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       defaultEndpoint,
		Insecure:       true,
	}
}

// Resource describes the exporting service to the collector. The service
// attributes are schemaless so they merge with the SDK default resource
// whatever semconv version it was built with.
func (c *ExportConfig) Resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(c.ServiceName),
			semconv.ServiceVersion(c.ServiceVersion),
			attribute.String("environment", c.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource for %s: %w", c.ServiceName, err)
	}
	return res, nil
}
