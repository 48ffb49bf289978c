// Package observability provides OpenTelemetry tracing and metrics for gorx
// subscriptions.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "rx.orders")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//	metrics.RecordTerminal(ctx, "orders", observability.OutcomeCompleted, 12, duration)
//
// The rx package wires both into producers through rx.WithTracing and
// rx.WithMetrics.
package observability
