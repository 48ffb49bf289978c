package rx

import (
	"context"
	stderrors "errors"
	"iter"
	"slices"
	"testing"

	"github.com/kbukum/gorx/errors"
)

type sliceIterator struct {
	items  []int
	pos    int
	closed int
	err    error
}

func (it *sliceIterator) Next(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if it.pos == len(it.items) {
		return 0, false, it.err
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *sliceIterator) Close() error {
	it.closed++
	return nil
}

func TestNormalize_Shapes(t *testing.T) {
	ch := make(chan int, 2)
	ch <- 1
	ch <- 2
	close(ch)

	bidi := make(chan int, 1)
	bidi <- 5
	close(bidi)

	var seq iter.Seq[int] = slices.Values([]int{7, 8})

	tests := []struct {
		name string
		in   Input[int]
		want []string
	}{
		{"producer", FromProducer(Just(1, 2)), []string{"value(1)", "value(2)", "complete"}},
		{"future", FromFuture(Resolved(9)), []string{"value(9)", "complete"}},
		{"rejected future", FromFuture(Rejected[int](stderrors.New("nope"))), []string{"error(nope)"}},
		{"slice", FromSlice([]int{4, 5}), []string{"value(4)", "value(5)", "complete"}},
		{"seq", FromSeq(seq), []string{"value(7)", "value(8)", "complete"}},
		{"func seq", FromAny[int](func(yield func(int) bool) { yield(3) }), []string{"value(3)", "complete"}},
		{"iterator", FromIterator[int](&sliceIterator{items: []int{6}}), []string{"value(6)", "complete"}},
		{"receive chan", FromChan[int](ch), []string{"value(1)", "value(2)", "complete"}},
		{"bidirectional chan", FromAny[int](bidi), []string{"value(5)", "complete"}},
		{"any slice", FromAny[int]([]int{1}), []string{"value(1)", "complete"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			r := newRecorder[int]()
			p.Subscribe(r)
			r.wait(t)
			r.assertEvents(t, tc.want...)
		})
	}
}

func TestNormalize_ProducerUnchanged(t *testing.T) {
	src := &manual[int]{}
	p, err := Normalize(FromProducer[int](src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := p.(*manual[int]); !ok || got != src {
		t.Errorf("expected the producer to be returned unchanged, got %T", p)
	}

	// Func-typed producers are not comparable; check they still pass
	// through by behaviour.
	fp, err := Normalize(FromProducer(Just(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := newRecorder[int]()
	fp.Subscribe(r)
	r.wait(t)
	r.assertEvents(t, "value(1)", "complete")
}

func TestNormalize_Failures(t *testing.T) {
	var nilFuture *Future[int]
	tests := []struct {
		name string
		in   Input[int]
	}{
		{"absent", None[int]()},
		{"nil", FromAny[int](nil)},
		{"nil future", FromFuture(nilFuture)},
		{"nil receive chan", FromChan[int](nil)},
		{"nil bidirectional chan", FromAny[int]((chan int)(nil))},
		{"nil seq", FromSeq[int](nil)},
		{"wrong element type", FromAny[int]([]string{"a"})},
		{"scalar", FromAny[int](42)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Normalize(tc.in)
			if p != nil {
				t.Error("expected no producer")
			}
			if !errors.HasCode(err, errors.ErrCodeNormalization) {
				t.Errorf("expected NORMALIZATION_FAILED, got %v", err)
			}
		})
	}
}

func TestNormalize_FailureNamesShape(t *testing.T) {
	_, err := Normalize(FromAny[int](42))
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || appErr.Details["shape"] != "int" {
		t.Errorf("expected shape=int in details, got %v", err)
	}
}

func TestInput_Presence(t *testing.T) {
	var zero Input[int]
	if zero.Present() {
		t.Error("expected the zero Input to be absent")
	}
	if None[int]().Present() {
		t.Error("expected None to be absent")
	}
	if !FromSlice[int](nil).Present() {
		t.Error("expected a nil slice to be present")
	}
	if !FromAny[int](nil).Present() {
		t.Error("expected FromAny(nil) to be present")
	}
}

func TestIterate_ClosesIterator(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		it := &sliceIterator{items: []int{1, 2}}
		r := newRecorder[int]()
		Iterate[int](it).Subscribe(r)
		r.wait(t)
		r.assertEvents(t, "value(1)", "value(2)", "complete")
		if it.closed != 1 {
			t.Errorf("expected Close once, got %d", it.closed)
		}
	})

	t.Run("failed", func(t *testing.T) {
		it := &sliceIterator{items: []int{1}, err: stderrors.New("read failed")}
		r := newRecorder[int]()
		Iterate[int](it).Subscribe(r)
		r.wait(t)
		r.assertEvents(t, "value(1)", "error(read failed)")
		if it.closed != 1 {
			t.Errorf("expected Close once, got %d", it.closed)
		}
	})
}
