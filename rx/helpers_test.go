package rx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recorder is a Consumer that logs every signal it receives and flags any
// signal arriving after a terminal one.
type recorder[T any] struct {
	mu         sync.Mutex
	events     []string
	values     []T
	err        error
	terminals  int
	violations int
	done       chan struct{}
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{done: make(chan struct{})}
}

func (r *recorder[T]) OnValue(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminals > 0 {
		r.violations++
	}
	r.values = append(r.values, v)
	r.events = append(r.events, fmt.Sprintf("value(%v)", v))
}

func (r *recorder[T]) OnError(err error) {
	r.terminal(fmt.Sprintf("error(%v)", err), err)
}

func (r *recorder[T]) OnComplete() {
	r.terminal("complete", nil)
}

func (r *recorder[T]) terminal(event string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminals > 0 {
		r.violations++
	}
	r.terminals++
	r.err = err
	r.events = append(r.events, event)
	if r.terminals == 1 {
		close(r.done)
	}
}

func (r *recorder[T]) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func (r *recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *recorder[T]) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a terminal signal, got %v", r.Events())
	}
}

func (r *recorder[T]) assertEvents(t *testing.T, want ...string) {
	t.Helper()
	got := r.Events()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.violations != 0 {
		t.Errorf("expected no signals after the terminal one, got %d", r.violations)
	}
}

// countingResource counts every Release call, including repeated ones.
type countingResource struct {
	calls    atomic.Int32
	released atomic.Bool
}

func (r *countingResource) Release() {
	r.calls.Add(1)
	r.released.Store(true)
}

func (r *countingResource) Released() bool { return r.released.Load() }

// manual is a producer driven by the test: it hands out its consumer and a
// countingResource per subscription.
type manual[T any] struct {
	mu   sync.Mutex
	subs []*manualSub[T]
}

type manualSub[T any] struct {
	c   Consumer[T]
	res *countingResource
}

func (m *manual[T]) Subscribe(c Consumer[T]) Resource {
	s := &manualSub[T]{c: c, res: &countingResource{}}
	m.mu.Lock()
	m.subs = append(m.subs, s)
	m.mu.Unlock()
	return s.res
}

func (m *manual[T]) sub(t *testing.T, i int) *manualSub[T] {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= len(m.subs) {
		t.Fatalf("expected subscription %d, have %d", i, len(m.subs))
	}
	return m.subs[i]
}

func (m *manual[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
