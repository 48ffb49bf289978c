// Package rx provides a push-based reactive core built around deferred,
// per-subscriber producers.
//
// A Producer pushes zero or more values to a Consumer followed by at most one
// terminal signal (error or completion). Subscribing returns a Resource;
// releasing it cancels the subscription and everything it acquired.
//
// # Defer
//
// Defer postpones the choice of source until subscribe time. The factory runs
// once per subscription, so every subscriber gets an independently produced
// source:
//
//	p := rx.Defer(func() (rx.Input[int], error) {
//	    if cached {
//	        return rx.FromSlice(values), nil
//	    }
//	    return rx.FromFuture(fetch()), nil
//	})
//	sub := p.Subscribe(rx.Callbacks[int]{Value: handle})
//	defer sub.Release()
//
// The factory may decline to produce a source by returning None, in which
// case the subscription stays silent. Errors and panics raised by the
// factory become the subscription's single terminal error.
//
// Panics raised by a consumer callback are not contained. They propagate to
// whoever pushed the signal, which for synchronous sources is the caller of
// Subscribe, and the subscription delivers nothing further.
//
// # Inputs
//
// Factories return an Input, which is normalized into a Producer:
//
//   - FromProducer: passed through unchanged
//   - FromFuture: one value then completion
//   - FromSlice, FromSeq: each element then completion
//   - FromIterator: a pull-based Iterator drained on a goroutine
//   - FromChan: each received value, completion when the channel closes
//   - FromAny: any of the above, resolved dynamically
//
// # Delegation
//
// Delegator is the building block shared by Defer, Merge and Retry: an outer
// consumer that subscribes to inner producers on behalf of a downstream
// consumer, owns the resulting subscriptions as child resources and routes
// inner signals through an InnerHandler.
//
// # Terminals
//
//   - Collect: gather all values into a slice
//   - ForEach: call a function for each value
package rx
