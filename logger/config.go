package logger

import "github.com/kbukum/gorx/validation"

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	validFormats = []string{"json", "console", FormatPretty}
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal disabled"`
	Format    string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console pretty"`
	Output    string `yaml:"output" mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Check records invalid level or format values in v.
func (c *Config) Check(v *validation.Validator) {
	v.OneOf("level", c.Level, validLevels...).
		OneOf("format", c.Format, validFormats...).
		Check(c.Level != "", "level", "is required").
		Check(c.Format != "", "format", "is required")
}

// Validate validates logging configuration, reporting keys under "logging".
func (c *Config) Validate() error {
	v := validation.New()
	c.Check(v.Section("logging"))
	return v.Err()
}
