// Package config loads and validates configuration for gorx applications.
//
// It uses Viper to read a YAML file and environment variables, with an
// optional .env file loaded through godotenv. Values are unmarshalled into
// Config, defaulted, then checked with the validation package.
//
// # Usage
//
//	cfg, err := config.Load("rxdemo")
//	if err != nil {
//	    return err
//	}
//	producer := rx.Retry(source, cfg.Retry.NewBackOff)
//
// Environment variables override file values: RETRY_MAX_RETRIES sets
// retry.max_retries and TRACING_ENABLED sets tracing.enabled.
package config
