package rx

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry resubscribes to source each time it fails, waiting between attempts
// as scheduled by a BackOff obtained from newBackOff (one per subscription;
// nil means backoff.NewExponentialBackOff). When the schedule returns
// backoff.Stop the last error is forwarded. Values emitted by failed
// attempts are forwarded as they arrive.
//
// Retrying a Defer producer invokes its factory afresh on every attempt.
// Releasing the subscription cancels a pending attempt.
func Retry[T any](source Producer[T], newBackOff func() backoff.BackOff) Producer[T] {
	return ProducerFunc[T](func(c Consumer[T]) Resource {
		var schedule backoff.BackOff
		if newBackOff != nil {
			schedule = newBackOff()
		} else {
			schedule = backoff.NewExponentialBackOff()
		}
		schedule.Reset()

		h := &retryHandler[T]{source: source, schedule: schedule}
		d := NewDelegator[T, T](c, h)
		d.Delegate(0, source)
		return d
	})
}

type retryHandler[T any] struct {
	source   Producer[T]
	schedule backoff.BackOff
}

func (h *retryHandler[T]) InnerValue(d *Delegator[T, T], _ int, v T) { d.Value(v) }

func (h *retryHandler[T]) InnerComplete(d *Delegator[T, T], _ int) { d.Complete() }

func (h *retryHandler[T]) InnerError(d *Delegator[T, T], attempt int, err error) {
	wait := h.schedule.NextBackOff()
	if wait == backoff.Stop {
		d.Error(err)
		return
	}
	t := &timerResource{}
	if !d.AddChild(t) {
		return
	}
	t.start(wait, func() {
		d.RemoveChild(t)
		d.Delegate(attempt+1, h.source)
	})
}

// timerResource is a pending attempt; releasing it stops the timer.
type timerResource struct {
	mu       sync.Mutex
	timer    *time.Timer
	released bool
}

func (t *timerResource) start(wait time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.timer = time.AfterFunc(wait, fn)
}

func (t *timerResource) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *timerResource) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
