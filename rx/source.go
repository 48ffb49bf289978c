package rx

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to a stream of values.
// Structurally compatible with pipeline and provider iterators, so pull
// sources plug directly into FromIterator.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Just emits each of values in order, then completes.
func Just[T any](values ...T) Producer[T] {
	return Slice(values)
}

// Slice emits each element of items in order, then completes.
func Slice[T any](items []T) Producer[T] {
	return Create(func(e Emitter[T]) func() {
		for _, v := range items {
			if e.Released() {
				return nil
			}
			e.Value(v)
		}
		e.Complete()
		return nil
	})
}

// Seq emits each value yielded by seq, then completes. Iteration stops early
// when the subscription ends.
func Seq[T any](seq iter.Seq[T]) Producer[T] {
	return Create(func(e Emitter[T]) func() {
		for v := range seq {
			if e.Released() {
				return nil
			}
			e.Value(v)
		}
		e.Complete()
		return nil
	})
}

// Chan emits every value received from ch and completes when ch is closed.
// Values are received on a separate goroutine, which exits when the
// subscription is released.
func Chan[T any](ch <-chan T) Producer[T] {
	return Create(func(e Emitter[T]) func() {
		stop := make(chan struct{})
		go func() {
			for {
				select {
				case v, ok := <-ch:
					if !ok {
						e.Complete()
						return
					}
					e.Value(v)
				case <-stop:
					return
				}
			}
		}()
		return func() { close(stop) }
	})
}

// Iterate drains it on a separate goroutine, emitting each value, and closes
// it when exhausted, failed or released. Releasing the subscription cancels
// the context passed to Next. An Iterator can be drained only once; wrap its
// construction in Defer to give every subscriber a fresh one.
func Iterate[T any](it Iterator[T]) Producer[T] {
	return Create(func(e Emitter[T]) func() {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			for !e.Released() {
				v, ok, err := it.Next(ctx)
				if err != nil {
					_ = it.Close()
					e.Error(err)
					return
				}
				if !ok {
					if err := it.Close(); err != nil {
						e.Error(err)
						return
					}
					e.Complete()
					return
				}
				e.Value(v)
			}
			_ = it.Close()
		}()
		return cancel
	})
}

// Empty completes immediately without emitting.
func Empty[T any]() Producer[T] {
	return Create(func(e Emitter[T]) func() {
		e.Complete()
		return nil
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Producer[T] {
	return Create(func(Emitter[T]) func() { return nil })
}

// Fail terminates immediately with err.
func Fail[T any](err error) Producer[T] {
	return Create(func(e Emitter[T]) func() {
		e.Error(err)
		return nil
	})
}
