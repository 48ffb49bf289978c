package config

import (
	"github.com/kbukum/gorx/errors"
	"github.com/kbukum/gorx/logger"
	"github.com/kbukum/gorx/observability"
	"github.com/kbukum/gorx/validation"
)

var validEnvironments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every gorx application needs.
// Applications extend it by embedding it in their own config structs.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Orders OrdersConfig  `yaml:"orders" mapstructure:"orders"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = "0.0.0"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	v := validation.New()
	c.Check(v)
	return v.Err()
}

// Check records rule violations of the service fields and the logging
// section in v.
func (c *ServiceConfig) Check(v *validation.Validator) {
	v.Required("name", c.Name).
		OneOf("environment", c.Environment, validEnvironments...)
	c.Logging.Check(v.Section("logging"))
}

// Config is the complete configuration of a gorx application: service
// identity, logging, telemetry export and the default retry schedule.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Tracing       observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics       observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	Retry         RetryConfig                `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills unset fields and propagates the service identity into
// the telemetry sections.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	c.inherit(&c.Tracing.ServiceName, &c.Tracing.ServiceVersion, &c.Tracing.Environment)
	c.inherit(&c.Metrics.ServiceName, &c.Metrics.ServiceVersion, &c.Metrics.Environment)
	c.Retry.ApplyDefaults()
}

func (c *Config) inherit(name, version, env *string) {
	if *name == "" {
		*name = c.Name
	}
	if *version == "" {
		*version = c.Version
	}
	if *env == "" {
		*env = c.Environment
	}
}

// Validate checks struct tags across every section, then the cross-field
// rules each section defines.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	c.ServiceConfig.Check(v)
	c.Retry.Check(v.Section("retry"))
	return v.Err()
}

// Load reads configuration for serviceName (see LoadConfig), applies
// defaults and validates the result. Validation failures are returned as
// INVALID_CONFIG errors.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	opts = append([]LoaderOption{WithDefaults(defaults(serviceName))}, opts...)

	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, errors.InvalidConfig("loading configuration").WithCause(err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaults seeds values whose zero value is meaningful, so an unset key
// can be told apart from an explicit zero.
func defaults(serviceName string) map[string]any {
	tracing := observability.DefaultTracerConfig(serviceName)
	metrics := observability.DefaultMeterConfig(serviceName)
	return map[string]any{
		"name":                       serviceName,
		"tracing.endpoint":           tracing.Endpoint,
		"tracing.insecure":           tracing.Insecure,
		"tracing.sample_rate":        tracing.SampleRate,
		"metrics.endpoint":           metrics.Endpoint,
		"metrics.insecure":           metrics.Insecure,
		"metrics.interval":           metrics.Interval,
		"retry.multiplier":           defaultMultiplier,
		"retry.randomization_factor": defaultRandomizationFactor,
	}
}
