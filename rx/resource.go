package rx

import (
	"reflect"
	"sync"
)

// ResourceFunc returns a Resource that runs fn on its first release.
func ResourceFunc(fn func()) Resource {
	return &funcResource{fn: fn}
}

type funcResource struct {
	mu       sync.Mutex
	fn       func()
	released bool
}

func (r *funcResource) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	fn := r.fn
	r.fn = nil
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (r *funcResource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Composite is an owned set of child resources that are released together.
type Composite struct {
	mu       sync.Mutex
	children []Resource
	released bool
}

// NewComposite creates an empty Composite.
func NewComposite() *Composite {
	return &Composite{}
}

// Add registers r as a child. Any Resource is accepted, comparable or not.
// If the composite is already released, r is released immediately and Add
// returns false.
func (c *Composite) Add(r Resource) bool {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		r.Release()
		return false
	}
	c.children = append(c.children, r)
	c.mu.Unlock()
	return true
}

// Remove drops r from the set without releasing it. Children are matched
// with ==; a child whose type is not comparable can only leave the set by
// being released.
func (c *Composite) Remove(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, child := range c.children {
		if sameResource(child, r) {
			last := len(c.children) - 1
			c.children[i] = c.children[last]
			c.children[last] = nil
			c.children = c.children[:last]
			return
		}
	}
}

// sameResource compares a and b without panicking when a's dynamic type is
// not comparable.
func sameResource(a, b Resource) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Len returns the number of children currently held.
func (c *Composite) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.children)
}

// Release releases every child exactly once. Later calls are no-ops.
func (c *Composite) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	children := c.children
	c.children = nil
	c.mu.Unlock()

	for _, r := range children {
		r.Release()
	}
}

// Released reports whether Release has been called.
func (c *Composite) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// slot is a child resource whose target is bound after registration.
// Registering the slot before subscribing keeps teardown correct when the
// inner producer signals before Subscribe returns.
type slot struct {
	mu       sync.Mutex
	target   Resource
	released bool
}

// bind attaches the subscription. A slot released in the meantime releases
// the late subscription at once.
func (s *slot) bind(r Resource) {
	if r == nil {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		r.Release()
		return
	}
	s.target = r
	s.mu.Unlock()
}

func (s *slot) Release() { s.release() }

// release reports whether this call was the one that released the slot.
func (s *slot) release() bool {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false
	}
	s.released = true
	target := s.target
	s.target = nil
	s.mu.Unlock()
	if target != nil {
		target.Release()
	}
	return true
}

func (s *slot) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
