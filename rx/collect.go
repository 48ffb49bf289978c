package rx

import (
	"context"
	"sync"
)

// Collect subscribes to p and returns all values once it terminates. If ctx
// is done first, the subscription is released and the values received so
// far are returned with ctx.Err().
func Collect[T any](ctx context.Context, p Producer[T]) ([]T, error) {
	var (
		mu     sync.Mutex
		result []T
	)
	err := ForEach(ctx, p, func(v T) error {
		mu.Lock()
		result = append(result, v)
		mu.Unlock()
		return nil
	})
	mu.Lock()
	defer mu.Unlock()
	return result, err
}

// ForEach subscribes to p and calls fn for each value until p terminates.
// It returns p's error, the first error returned by fn (which releases the
// subscription), or ctx.Err() if ctx is done first.
func ForEach[T any](ctx context.Context, p Producer[T], fn func(T) error) error {
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	var (
		mu   sync.Mutex
		sub  Resource
		fail error
	)
	release := func() {
		mu.Lock()
		s := sub
		mu.Unlock()
		if s != nil {
			s.Release()
		}
	}

	s := p.Subscribe(Callbacks[T]{
		Value: func(v T) {
			mu.Lock()
			failed := fail != nil
			mu.Unlock()
			if failed {
				return
			}
			if err := fn(v); err != nil {
				mu.Lock()
				fail = err
				mu.Unlock()
				finish(err)
				release()
			}
		},
		Error:    func(err error) { finish(err) },
		Complete: func() { finish(nil) },
	})

	mu.Lock()
	sub = s
	failed := fail != nil
	mu.Unlock()
	if failed {
		s.Release()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.Release()
		return ctx.Err()
	}
}
