package rx

import "sync"

type signalKind uint8

const (
	signalValue signalKind = iota
	signalError
	signalComplete
)

type signal[T any] struct {
	kind  signalKind
	value T
	err   error
}

// serializer delivers signals to a consumer one at a time, in push order,
// and enforces the terminal contract. A signal pushed while another is being
// delivered (from another goroutine, or re-entrantly from inside a callback)
// is queued and delivered by the goroutine already emitting, so callbacks run
// without any lock held.
//
// A panic in a consumer callback propagates to the pusher. The serializer is
// then closed: queued signals are dropped and later ones rejected.
type serializer[T any] struct {
	mu        sync.Mutex
	c         Consumer[T]
	queue     []signal[T]
	emitting  bool
	done      bool
	cancelled bool
	panicked  bool
}

func newSerializer[T any](c Consumer[T]) *serializer[T] {
	return &serializer[T]{c: c}
}

func (s *serializer[T]) value(v T) { s.push(signal[T]{kind: signalValue, value: v}) }
func (s *serializer[T]) fail(err error) { s.push(signal[T]{kind: signalError, err: err}) }
func (s *serializer[T]) complete() { s.push(signal[T]{kind: signalComplete}) }

func (s *serializer[T]) push(sig signal[T]) {
	s.mu.Lock()
	if s.done || s.cancelled {
		s.mu.Unlock()
		return
	}
	if sig.kind != signalValue {
		s.done = true
	}
	if s.emitting {
		s.queue = append(s.queue, sig)
		s.mu.Unlock()
		return
	}
	s.emitting = true
	s.mu.Unlock()

	delivered := false
	defer func() {
		if delivered {
			return
		}
		s.mu.Lock()
		s.emitting = false
		s.queue = nil
		s.cancelled = true
		s.panicked = true
		s.mu.Unlock()
	}()

	for {
		s.deliver(sig)

		s.mu.Lock()
		if s.cancelled || len(s.queue) == 0 {
			s.emitting = false
			s.queue = nil
			s.mu.Unlock()
			delivered = true
			return
		}
		sig = s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
	}
}

// consumerPanicked reports whether a consumer callback panicked while this
// serializer was delivering to it.
func (s *serializer[T]) consumerPanicked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panicked
}

func (s *serializer[T]) deliver(sig signal[T]) {
	switch sig.kind {
	case signalValue:
		s.c.OnValue(sig.value)
	case signalError:
		s.c.OnError(sig.err)
	case signalComplete:
		s.c.OnComplete()
	}
}

// cancel drops queued signals and rejects any further ones.
func (s *serializer[T]) cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.queue = nil
	s.mu.Unlock()
}
