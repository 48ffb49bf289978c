package rx

import (
	"context"
	"sync"

	"github.com/kbukum/gorx/errors"
)

// Future is a write-once cell for a single value (or error) that becomes
// available later. Normalized through FromFuture it behaves as a producer of
// exactly one value followed by completion.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	value   T
	err     error
	settled bool

	// Async computations start with the first waiter and are cancelled
	// when the last waiter leaves before they finish.
	run     func(ctx context.Context) (T, error)
	started bool
	cancel  context.CancelFunc
	waiters int
}

// NewFuture creates an unsettled Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a Future already holding v.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Rejected creates a Future already holding err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Async creates a Future settled by fn. fn does not run until something
// waits on the Future; if every waiter goes away before fn returns, its
// context is cancelled and the Future is rejected with a CANCELLED error.
func Async[T any](fn func(ctx context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()
	f.run = fn
	return f
}

// Resolve settles the Future with v. It returns false if already settled.
func (f *Future[T]) Resolve(v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settleLocked(v, nil)
}

// Reject settles the Future with err. It returns false if already settled.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settleLocked(zero, err)
}

func (f *Future[T]) settleLocked(v T, err error) bool {
	if f.settled {
		return false
	}
	f.settled = true
	f.value, f.err = v, err
	close(f.done)
	if f.cancel != nil {
		f.cancel()
	}
	return true
}

// Done is closed once the Future settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Settled reports whether the Future holds a value or an error.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Result returns the settled value and error. Before Done is closed it
// returns the zero value and a nil error.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Await blocks until the Future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	f.acquire()
	defer f.release()
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Producer returns a producer emitting the settled value then completing,
// or failing with the settled error. Releasing a subscription before the
// Future settles stops waiting on it.
func (f *Future[T]) Producer() Producer[T] {
	return Create(func(e Emitter[T]) func() {
		f.acquire()
		select {
		case <-f.done:
			f.release()
			f.emit(e)
			return nil
		default:
		}

		stop := make(chan struct{})
		go func() {
			select {
			case <-f.done:
				f.emit(e)
			case <-stop:
			}
		}()
		return func() {
			close(stop)
			f.release()
		}
	})
}

func (f *Future[T]) emit(e Emitter[T]) {
	v, err := f.Result()
	if err != nil {
		e.Error(err)
		return
	}
	e.Value(v)
	e.Complete()
}

func (f *Future[T]) acquire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters++
	if f.run == nil || f.started || f.settled {
		return
	}
	f.started = true
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go f.compute(ctx)
}

func (f *Future[T]) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters--
	if f.waiters == 0 && f.started {
		var zero T
		f.settleLocked(zero, errors.Cancelled("async computation"))
	}
}

func (f *Future[T]) compute(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			f.Reject(errors.Recovered(r))
		}
	}()
	v, err := f.run(ctx)
	if err != nil {
		f.Reject(err)
		return
	}
	f.Resolve(v)
}
