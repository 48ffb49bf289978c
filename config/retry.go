package config

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kbukum/gorx/validation"
)

const (
	defaultInitialInterval     = 500 * time.Millisecond
	defaultMaxInterval         = 30 * time.Second
	defaultMultiplier          = 1.5
	defaultRandomizationFactor = 0.5
)

// RetryConfig configures the exponential schedule used by rx.Retry.
type RetryConfig struct {
	InitialInterval     time.Duration `yaml:"initial_interval" mapstructure:"initial_interval" validate:"gte=0"`
	MaxInterval         time.Duration `yaml:"max_interval" mapstructure:"max_interval" validate:"gte=0"`
	Multiplier          float64       `yaml:"multiplier" mapstructure:"multiplier" validate:"gte=1"`
	RandomizationFactor float64       `yaml:"randomization_factor" mapstructure:"randomization_factor" validate:"gte=0,lte=1"`
	// MaxElapsedTime stops retrying once exceeded; zero never stops.
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time" mapstructure:"max_elapsed_time" validate:"gte=0"`
	// MaxRetries caps the number of resubscriptions; zero is unlimited.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
}

// ApplyDefaults applies default values to the retry schedule.
func (c *RetryConfig) ApplyDefaults() {
	if c.InitialInterval == 0 {
		c.InitialInterval = defaultInitialInterval
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = defaultMaxInterval
	}
	if c.Multiplier == 0 {
		c.Multiplier = defaultMultiplier
	}
}

// Validate checks rules that span fields, reporting keys under "retry".
func (c *RetryConfig) Validate() error {
	v := validation.New()
	c.Check(v.Section("retry"))
	return v.Err()
}

// Check records cross-field violations in v.
func (c *RetryConfig) Check(v *validation.Validator) {
	validation.NotBelow(v, "max_interval", c.MaxInterval, "initial_interval", c.InitialInterval)
}

// NewBackOff returns a fresh schedule built from the config. It matches the
// factory signature rx.Retry expects, so one config can serve many
// subscriptions.
func (c RetryConfig) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.InitialInterval
	eb.MaxInterval = c.MaxInterval
	eb.Multiplier = c.Multiplier
	eb.RandomizationFactor = c.RandomizationFactor
	eb.MaxElapsedTime = c.MaxElapsedTime
	eb.Reset()

	if c.MaxRetries > 0 {
		return backoff.WithMaxRetries(eb, uint64(c.MaxRetries))
	}
	return eb
}
