// Package validation checks configuration structs for gorx applications.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation for cross-field rules, collected across config
// sections under dotted keys. Both report failures as an INVALID_CONFIG
// AppError whose "fields" detail lists every offending field.
//
// # Struct Tag Validation
//
//	type RetryConfig struct {
//	    MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", cfg.Name)
//	retry := v.Section("retry")
//	validation.NotBelow(retry, "max_interval", cfg.MaxInterval, "initial_interval", cfg.InitialInterval)
//	err := v.Err() // reports "retry.max_interval: must not be below retry.initial_interval ..."
package validation
