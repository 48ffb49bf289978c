package rx

import (
	"fmt"
	"iter"

	"github.com/kbukum/gorx/errors"
)

// Input is an optional producer input, as returned by a Factory.
// The zero value is absent: the factory declined to produce a source.
// Presence is explicit, so a present input wrapping a zero value (a producer
// of 0, an empty slice) is never mistaken for absence.
type Input[T any] struct {
	value   any
	present bool
}

// None returns the absent Input.
func None[T any]() Input[T] { return Input[T]{} }

// Present reports whether the input holds a value.
func (in Input[T]) Present() bool { return in.present }

// FromProducer wraps a producer, passed through unchanged by Normalize.
func FromProducer[T any](p Producer[T]) Input[T] { return Input[T]{value: p, present: true} }

// FromFuture wraps a deferred single value.
func FromFuture[T any](f *Future[T]) Input[T] { return Input[T]{value: f, present: true} }

// FromSlice wraps a finite ordered sequence.
func FromSlice[T any](items []T) Input[T] { return Input[T]{value: items, present: true} }

// FromSeq wraps an iterator function.
func FromSeq[T any](seq iter.Seq[T]) Input[T] { return Input[T]{value: seq, present: true} }

// FromIterator wraps a pull-based iterator.
func FromIterator[T any](it Iterator[T]) Input[T] { return Input[T]{value: it, present: true} }

// FromChan wraps a receive channel.
func FromChan[T any](ch <-chan T) Input[T] { return Input[T]{value: ch, present: true} }

// FromAny wraps a value whose shape is only known at run time. Normalize
// fails on shapes it does not recognize, including nil.
func FromAny[T any](v any) Input[T] { return Input[T]{value: v, present: true} }

// Normalize converts a present Input into a Producer:
//
//   - Producer[T] is returned unchanged
//   - *Future[T] emits its value then completes
//   - []T and iter.Seq[T] emit each element then complete
//   - Iterator[T] is drained on a goroutine
//   - <-chan T and chan T emit until the channel is closed
//
// Any other shape, a nil value (including a nil channel, sequence or
// future) or an absent Input yields a NORMALIZATION_FAILED error.
func Normalize[T any](in Input[T]) (Producer[T], error) {
	if !in.present {
		return nil, errors.Normalization("an absent input")
	}
	switch v := in.value.(type) {
	case nil:
		return nil, errors.Normalization("nil")
	case Producer[T]:
		return v, nil
	case *Future[T]:
		if v == nil {
			return nil, errors.Normalization("a nil future")
		}
		return v.Producer(), nil
	case []T:
		return Slice(v), nil
	case iter.Seq[T]:
		if v == nil {
			return nil, errors.Normalization("a nil sequence")
		}
		return Seq(v), nil
	case func(yield func(T) bool):
		if v == nil {
			return nil, errors.Normalization("a nil sequence")
		}
		return Seq(iter.Seq[T](v)), nil
	case Iterator[T]:
		return Iterate(v), nil
	case <-chan T:
		if v == nil {
			return nil, errors.Normalization("a nil channel")
		}
		return Chan(v), nil
	case chan T:
		if v == nil {
			return nil, errors.Normalization("a nil channel")
		}
		return Chan((<-chan T)(v)), nil
	default:
		return nil, errors.Normalization(fmt.Sprintf("%T", v))
	}
}
