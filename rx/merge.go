package rx

import "sync/atomic"

// Merge subscribes to every source at once and emits their values as they
// arrive. It completes after all sources complete; the first error is
// terminal and releases the remaining sources. Order across sources is not
// preserved.
func Merge[T any](sources ...Producer[T]) Producer[T] {
	return ProducerFunc[T](func(c Consumer[T]) Resource {
		h := &mergeHandler[T]{}
		h.remaining.Store(int64(len(sources)))
		d := NewDelegator[T, T](c, h)
		if len(sources) == 0 {
			d.Complete()
			return d
		}
		for i, p := range sources {
			if d.Released() {
				break
			}
			d.Delegate(i, p)
		}
		return d
	})
}

type mergeHandler[T any] struct {
	remaining atomic.Int64
}

func (h *mergeHandler[T]) InnerValue(d *Delegator[T, T], _ int, v T) { d.Value(v) }

func (h *mergeHandler[T]) InnerError(d *Delegator[T, T], _ int, err error) { d.Error(err) }

func (h *mergeHandler[T]) InnerComplete(d *Delegator[T, T], _ int) {
	if h.remaining.Add(-1) == 0 {
		d.Complete()
	}
}
