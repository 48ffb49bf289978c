package rx

// Consumer receives the signals pushed by a Producer.
// OnError and OnComplete are terminal: at most one of them is called, and
// nothing is called after it.
type Consumer[T any] interface {
	OnValue(v T)
	OnError(err error)
	OnComplete()
}

// Resource is a releasable handle such as a subscription.
type Resource interface {
	// Release frees the resource. Calling it more than once is a no-op.
	Release()
	// Released reports whether the resource has been released.
	Released() bool
}

// Producer pushes signals to every consumer that subscribes to it.
type Producer[T any] interface {
	// Subscribe starts delivering signals to c and returns a handle that
	// cancels the subscription when released.
	Subscribe(c Consumer[T]) Resource
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc[T any] func(c Consumer[T]) Resource

// Subscribe calls f(c).
func (f ProducerFunc[T]) Subscribe(c Consumer[T]) Resource { return f(c) }

// Callbacks adapts plain functions to the Consumer interface.
// Nil callbacks are ignored.
type Callbacks[T any] struct {
	Value    func(T)
	Error    func(error)
	Complete func()
}

func (cb Callbacks[T]) OnValue(v T) {
	if cb.Value != nil {
		cb.Value(v)
	}
}

func (cb Callbacks[T]) OnError(err error) {
	if cb.Error != nil {
		cb.Error(err)
	}
}

func (cb Callbacks[T]) OnComplete() {
	if cb.Complete != nil {
		cb.Complete()
	}
}
