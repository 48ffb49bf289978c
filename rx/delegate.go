package rx

import (
	"sync"

	"github.com/kbukum/gorx/errors"
)

// InnerHandler decides what a Delegator does with the signals of its inner
// producers. key identifies the inner producer a signal came from, as given
// to Delegate.
type InnerHandler[T, R any] interface {
	InnerValue(d *Delegator[T, R], key int, v T)
	InnerError(d *Delegator[T, R], key int, err error)
	InnerComplete(d *Delegator[T, R], key int)
}

// Forward is the InnerHandler that passes every inner signal downstream
// unchanged.
type Forward[T any] struct{}

func (Forward[T]) InnerValue(d *Delegator[T, T], _ int, v T) { d.Value(v) }
func (Forward[T]) InnerError(d *Delegator[T, T], _ int, err error) { d.Error(err) }
func (Forward[T]) InnerComplete(d *Delegator[T, T], _ int) { d.Complete() }

// Delegator is an outer consumer that observes inner producers on behalf of
// a downstream consumer. Inner subscriptions are owned as child resources:
// they are released when the Delegator terminates or is released, whichever
// comes first. At most one terminal signal reaches downstream and nothing
// follows it.
//
// A Delegator is itself the Resource handed back to the downstream
// subscriber.
type Delegator[T, R any] struct {
	mu         sync.Mutex
	out        *serializer[R]
	handler    InnerHandler[T, R]
	children   *Composite
	terminated bool
}

// NewDelegator creates a Delegator forwarding to downstream through h.
func NewDelegator[T, R any](downstream Consumer[R], h InnerHandler[T, R]) *Delegator[T, R] {
	return &Delegator[T, R]{
		out:      newSerializer(downstream),
		handler:  h,
		children: NewComposite(),
	}
}

// Delegate subscribes the Delegator to p, tagging its signals with key, and
// registers the subscription as a child resource. The child slot is
// registered before subscribing, so p may signal (even terminally) before
// Subscribe returns. The returned handle releases only this inner
// subscription.
func (d *Delegator[T, R]) Delegate(key int, p Producer[T]) Resource {
	s := &slot{}
	if !d.children.Add(s) {
		return s
	}
	inner := &innerConsumer[T, R]{d: d, key: key, slot: s}
	sub, err := d.subscribe(p, inner)
	if err != nil {
		d.Error(err)
		return s
	}
	s.bind(sub)
	return s
}

// subscribe turns a panic raised by p.Subscribe into an error. A panic that
// started in the downstream consumer is not the inner producer's failure and
// keeps unwinding.
func (d *Delegator[T, R]) subscribe(p Producer[T], c Consumer[T]) (sub Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d.out.consumerPanicked() {
				panic(r)
			}
			err = errors.Recovered(r)
		}
	}()
	return p.Subscribe(c), nil
}

// AddChild registers r to be released together with the Delegator. If the
// Delegator has already ended, r is released immediately and AddChild
// returns false.
func (d *Delegator[T, R]) AddChild(r Resource) bool {
	return d.children.Add(r)
}

// RemoveChild drops r from the owned set without releasing it.
func (d *Delegator[T, R]) RemoveChild(r Resource) {
	d.children.Remove(r)
}

// Value forwards v downstream unless the Delegator has ended.
func (d *Delegator[T, R]) Value(v R) {
	if d.Released() {
		return
	}
	d.out.value(v)
}

// Error releases all children and forwards err as the terminal signal.
func (d *Delegator[T, R]) Error(err error) {
	if !d.terminate() {
		return
	}
	d.children.Release()
	d.out.fail(err)
}

// Complete releases all children and forwards completion as the terminal
// signal.
func (d *Delegator[T, R]) Complete() {
	if !d.terminate() {
		return
	}
	d.children.Release()
	d.out.complete()
}

// Release cancels the subscription: pending signals are dropped and every
// child resource is released. It is safe to call before any child exists
// and more than once.
func (d *Delegator[T, R]) Release() {
	if !d.terminate() {
		return
	}
	d.out.cancel()
	d.children.Release()
}

// Released reports whether the Delegator has terminated or been released.
func (d *Delegator[T, R]) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminated
}

func (d *Delegator[T, R]) terminate() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.terminated {
		return false
	}
	d.terminated = true
	return true
}

// innerConsumer subscribes to an inner producer on behalf of a Delegator.
type innerConsumer[T, R any] struct {
	d    *Delegator[T, R]
	key  int
	slot *slot
}

func (c *innerConsumer[T, R]) OnValue(v T) {
	if c.slot.Released() {
		return
	}
	c.d.handler.InnerValue(c.d, c.key, v)
}

func (c *innerConsumer[T, R]) OnError(err error) {
	if !c.detach() {
		return
	}
	c.d.handler.InnerError(c.d, c.key, err)
}

func (c *innerConsumer[T, R]) OnComplete() {
	if !c.detach() {
		return
	}
	c.d.handler.InnerComplete(c.d, c.key)
}

// detach releases the inner subscription once it has terminated on its own.
func (c *innerConsumer[T, R]) detach() bool {
	c.d.children.Remove(c.slot)
	return c.slot.release()
}
