package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kbukum/gorx/config"
	"github.com/kbukum/gorx/errors"
	"github.com/kbukum/gorx/logger"
	"github.com/kbukum/gorx/observability"
	"github.com/kbukum/gorx/rx"
)

// scenario is one producer and what a subscriber to it should see.
type scenario struct {
	name string
	// build returns a fresh producer; retry is the configured schedule.
	build func(retry func() backoff.BackOff) rx.Producer[int]
	// subscriptions is how many times the producer is collected.
	subscriptions int
	timeout       time.Duration
	want          [][]int
	// wantErr is the expected error code, or "" for completion.
	wantErr errors.ErrorCode
	// silent marks scenarios that never terminate on their own.
	silent bool
}

func scenarios() []scenario {
	var counter atomic.Int32
	var flaky atomic.Int32

	return []scenario{
		{
			name: "values",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					return rx.FromProducer(rx.Just(1, 2, 3)), nil
				})
			},
			want: [][]int{{1, 2, 3}},
		},
		{
			name: "factory-panic",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					panic("boom")
				})
			},
			want:    [][]int{nil},
			wantErr: errors.ErrCodeFactoryFailed,
		},
		{
			name: "declined",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					return rx.None[int](), nil
				})
			},
			timeout: 50 * time.Millisecond,
			want:    [][]int{nil},
			silent:  true,
		},
		{
			name: "future",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					return rx.FromFuture(rx.Async(func(ctx context.Context) (int, error) {
						select {
						case <-time.After(10 * time.Millisecond):
							return 42, nil
						case <-ctx.Done():
							return 0, ctx.Err()
						}
					})), nil
				})
			},
			want: [][]int{{42}},
		},
		{
			name: "fresh-per-subscriber",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					return rx.FromFuture(rx.Resolved(int(counter.Add(1)))), nil
				})
			},
			subscriptions: 2,
			want:          [][]int{{1}, {2}},
		},
		{
			name: "cancelled",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Defer(func() (rx.Input[int], error) {
					return rx.FromProducer(rx.Never[int]()), nil
				})
			},
			timeout: 20 * time.Millisecond,
			want:    [][]int{nil},
			silent:  true,
		},
		{
			name: "retry",
			build: func(retry func() backoff.BackOff) rx.Producer[int] {
				source := rx.Defer(func() (rx.Input[int], error) {
					attempt := flaky.Add(1)
					if attempt < 3 {
						logger.Get(serviceName).Debug("attempt failed", logger.Fields(logger.FieldAttempt, attempt))
						return rx.None[int](), errors.New(errors.ErrCodeFactoryFailed, "warming up")
					}
					return rx.FromSlice([]int{7}), nil
				})
				return rx.Retry(source, retry)
			},
			timeout: 10 * time.Second,
			want:    [][]int{{7}},
		},
		{
			name: "merge",
			build: func(func() backoff.BackOff) rx.Producer[int] {
				return rx.Merge(
					rx.Defer(func() (rx.Input[int], error) { return rx.FromSlice([]int{1, 2}), nil }),
					rx.Defer(func() (rx.Input[int], error) { return rx.FromSeq(slices.Values([]int{3})), nil }),
				)
			},
			want: [][]int{{1, 2, 3}},
		},
	}
}

type runner struct {
	log     *logger.Logger
	metrics *observability.Metrics
	retry   config.RetryConfig
}

// run collects sc and reports whether every subscription matched.
func (r *runner) run(ctx context.Context, sc scenario) bool {
	ctx, span := observability.StartSpan(ctx, "rxdemo.scenario "+sc.name)
	defer span.End()
	log := r.log.WithContext(ctx).WithFields(logger.Fields("scenario", sc.name))

	p := sc.build(r.retry.NewBackOff)
	p = rx.WithTracing(ctx, p, sc.name)
	p = rx.WithMetrics(p, sc.name, r.metrics)
	p = rx.WithLogging(p, sc.name, log)

	subs := max(sc.subscriptions, 1)
	ok := true
	for i := 0; i < subs; i++ {
		got, err := collect(ctx, p, sc.timeout)
		if mismatch := check(sc, i, got, err); mismatch != "" {
			ok = false
			log.Error("unexpected result", logger.Fields("subscription", i, "detail", mismatch))
			continue
		}
		log.Info("scenario passed", logger.Fields("subscription", i, logger.FieldValues, got))
	}
	if !ok {
		observability.SetSpanError(ctx, fmt.Errorf("scenario %s failed", sc.name))
	}
	return ok
}

func collect(ctx context.Context, p rx.Producer[int], timeout time.Duration) ([]int, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rx.Collect(ctx, p)
}

// check returns a description of how a result differs from sc, or "".
func check(sc scenario, i int, got []int, err error) string {
	var want []int
	if i < len(sc.want) {
		want = sc.want[i]
	}
	if !slices.Equal(got, want) {
		return fmt.Sprintf("values %v, want %v", got, want)
	}
	switch {
	case sc.silent:
		if !stderrors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("expected no terminal signal, got %v", err)
		}
	case sc.wantErr != "":
		if !errors.HasCode(err, sc.wantErr) {
			return fmt.Sprintf("error %v, want %s", err, sc.wantErr)
		}
	case err != nil:
		return fmt.Sprintf("unexpected error %v", err)
	}
	return ""
}
