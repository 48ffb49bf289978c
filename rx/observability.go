package rx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/gorx/logger"
	"github.com/kbukum/gorx/observability"
)

// WithTracing wraps p so that every subscription runs inside a span named
// "rx.subscribe <name>", started as a child of the span in ctx. The span
// ends with the subscription and records its outcome and value count.
func WithTracing[T any](ctx context.Context, p Producer[T], name string) Producer[T] {
	return observe(p, func() finisher {
		_, span := observability.StartSpan(ctx, observability.SpanSubscribe+" "+name,
			trace.WithAttributes(
				attribute.String(observability.AttrStream, name),
				attribute.String(observability.AttrSubscriptionID, uuid.NewString()),
			),
		)
		start := time.Now()
		return func(outcome string, values int64, err error) {
			span.SetAttributes(
				attribute.String(observability.AttrOutcome, outcome),
				attribute.Int64(observability.AttrValues, values),
				attribute.Int64(observability.AttrDurationMs, time.Since(start).Milliseconds()),
			)
			if err != nil {
				span.RecordError(err)
				span.SetAttributes(attribute.String(observability.AttrErrorMessage, err.Error()))
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
	})
}

// WithMetrics wraps p with subscription metrics recorded under name.
func WithMetrics[T any](p Producer[T], name string, metrics *observability.Metrics) Producer[T] {
	return observe(p, func() finisher {
		ctx := context.Background()
		start := time.Now()
		metrics.RecordSubscribe(ctx, name)
		return func(outcome string, values int64, err error) {
			metrics.RecordTerminal(ctx, name, outcome, values, time.Since(start))
			if err != nil {
				metrics.RecordError(ctx, logger.ErrorCode(err), name)
			}
		}
	})
}

// WithLogging wraps p with subscription logging: subscribe and normal
// endings at debug level, failures at error level. Every subscription is
// tagged with its own subscription_id. A nil log uses the registered
// logger.DefaultComponent logger.
func WithLogging[T any](p Producer[T], name string, log *logger.Logger) Producer[T] {
	if log == nil {
		log = logger.Get(logger.DefaultComponent)
	}
	return observe(p, func() finisher {
		l := log.WithFields(logger.SubscriptionFields(name, uuid.NewString()))
		start := time.Now()
		l.Debug("subscribed")
		return func(outcome string, values int64, err error) {
			fields := logger.OutcomeFields(outcome, values, time.Since(start), err)
			if err != nil {
				l.Error("subscription failed", fields)
				return
			}
			l.Debug("subscription ended", fields)
		}
	})
}

// finisher is called once per subscription with how it ended.
type finisher func(outcome string, values int64, err error)

// observe runs begin on every subscription and the finisher it returns on
// the first of: a terminal signal from p, or the subscriber releasing.
// Signals pass through unchanged.
func observe[T any](p Producer[T], begin func() finisher) Producer[T] {
	return ProducerFunc[T](func(c Consumer[T]) Resource {
		o := &observation[T]{downstream: c, finish: begin(), inner: &slot{}}
		o.inner.bind(p.Subscribe(o))
		return o
	})
}

type observation[T any] struct {
	downstream Consumer[T]
	finish     finisher
	inner      *slot
	values     atomic.Int64
	once       sync.Once
	ended      atomic.Bool
}

func (o *observation[T]) end(outcome string, err error) {
	o.once.Do(func() {
		o.ended.Store(true)
		o.finish(outcome, o.values.Load(), err)
	})
}

func (o *observation[T]) OnValue(v T) {
	o.values.Add(1)
	o.downstream.OnValue(v)
}

func (o *observation[T]) OnError(err error) {
	o.end(observability.OutcomeError, err)
	o.downstream.OnError(err)
}

func (o *observation[T]) OnComplete() {
	o.end(observability.OutcomeCompleted, nil)
	o.downstream.OnComplete()
}

func (o *observation[T]) Release() {
	o.end(observability.OutcomeCancelled, nil)
	o.inner.Release()
}

func (o *observation[T]) Released() bool {
	return o.ended.Load() || o.inner.Released()
}
