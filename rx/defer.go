package rx

import "github.com/kbukum/gorx/errors"

// Factory computes the source for one subscription. Returning None declines
// to produce a source; returning an error fails the subscription.
type Factory[T any] func() (Input[T], error)

// Defer returns a Producer that calls factory on every subscription and
// subscribes the downstream consumer to whatever the factory returns.
// Creating the Producer does not call factory, and no state is shared
// between subscriptions.
//
// Per subscription:
//
//   - factory returns an error or panics: the error is the single terminal
//     signal (a panic is wrapped as FACTORY_FAILED)
//   - factory returns None: nothing is ever signalled
//   - factory returns an input that cannot be normalized: NORMALIZATION_FAILED
//   - otherwise the normalized producer's signals are forwarded unchanged
//
// The returned Resource cancels the subscription and releases the inner one.
func Defer[T any](factory Factory[T]) Producer[T] {
	return &deferProducer[T]{factory: factory}
}

// DeferFunc is Defer for factories that return a Producer directly.
// A nil Producer declines to produce a source.
func DeferFunc[T any](factory func() Producer[T]) Producer[T] {
	return Defer(func() (Input[T], error) {
		p := factory()
		if p == nil {
			return None[T](), nil
		}
		return FromProducer(p), nil
	})
}

type deferProducer[T any] struct {
	factory Factory[T]
}

func (p *deferProducer[T]) Subscribe(c Consumer[T]) Resource {
	return newDeferConsumer(c, p.factory)
}

// deferConsumer is the per-subscription outer consumer: it invokes the
// factory once, during construction, and delegates to the result.
type deferConsumer[T any] struct {
	*Delegator[T, T]
}

func newDeferConsumer[T any](downstream Consumer[T], factory Factory[T]) *deferConsumer[T] {
	c := &deferConsumer[T]{Delegator: NewDelegator[T, T](downstream, Forward[T]{})}
	c.start(factory)
	return c
}

func (c *deferConsumer[T]) start(factory Factory[T]) {
	in, err := invoke(factory)
	if err != nil {
		c.Error(err)
		return
	}
	if !in.Present() {
		return
	}
	p, err := Normalize(in)
	if err != nil {
		c.Error(err)
		return
	}
	c.Delegate(0, p)
}

func invoke[T any](factory Factory[T]) (in Input[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			in, err = None[T](), errors.FactoryFailed(r)
		}
	}()
	return factory()
}
