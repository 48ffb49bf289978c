// Package logger provides structured logging for gorx applications
// using zerolog.
//
// It supports JSON and console output, log level configuration,
// component-scoped loggers and trace correlation from an OpenTelemetry
// span carried in a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("rx")
//	log.Info("subscribed", logger.Fields(logger.FieldStream, "orders"))
package logger
