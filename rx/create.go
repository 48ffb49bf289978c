package rx

import (
	"sync"

	"github.com/kbukum/gorx/errors"
)

// Emitter is the producing side handed to a Create source.
type Emitter[T any] interface {
	Value(v T)
	Error(err error)
	Complete()
	// Released reports whether the subscription has ended, by a terminal
	// signal or by the consumer. Sources should stop producing once it does.
	Released() bool
}

// Create builds a Producer from a source function. The source runs on every
// subscription and may return a teardown, which runs exactly once when the
// subscription terminates or is released. Signals emitted after that are
// dropped, and a panic in the source becomes the terminal error. A panic in
// the consumer propagates to the caller of Subscribe.
func Create[T any](source func(e Emitter[T]) (teardown func())) Producer[T] {
	return ProducerFunc[T](func(c Consumer[T]) Resource {
		e := &emitter[T]{out: newSerializer(c)}
		e.bind(e.run(source))
		return e
	})
}

type emitter[T any] struct {
	mu       sync.Mutex
	out      *serializer[T]
	teardown func()
	done     bool
}

func (e *emitter[T]) run(source func(Emitter[T]) func()) (teardown func()) {
	defer func() {
		if r := recover(); r != nil {
			if e.out.consumerPanicked() {
				panic(r)
			}
			e.Error(errors.Recovered(r))
		}
	}()
	return source(e)
}

// bind stores the teardown, or runs it now when the source already ended
// the subscription before returning.
func (e *emitter[T]) bind(teardown func()) {
	if teardown == nil {
		return
	}
	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		teardown()
		return
	}
	e.teardown = teardown
	e.mu.Unlock()
}

func (e *emitter[T]) end() (teardown func(), ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return nil, false
	}
	e.done = true
	teardown = e.teardown
	e.teardown = nil
	return teardown, true
}

func (e *emitter[T]) Value(v T) { e.out.value(v) }

func (e *emitter[T]) Error(err error) {
	teardown, ok := e.end()
	if !ok {
		return
	}
	if teardown != nil {
		teardown()
	}
	e.out.fail(err)
}

func (e *emitter[T]) Complete() {
	teardown, ok := e.end()
	if !ok {
		return
	}
	if teardown != nil {
		teardown()
	}
	e.out.complete()
}

func (e *emitter[T]) Release() {
	teardown, ok := e.end()
	if !ok {
		return
	}
	e.out.cancel()
	if teardown != nil {
		teardown()
	}
}

func (e *emitter[T]) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}
