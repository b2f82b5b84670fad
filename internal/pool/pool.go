// Package pool provides reusable-instance containers for transient game objects.
package pool

// Pool recycles instances of T through a free list.
// It never caps its size: capacity limits belong to whoever owns the active objects.
type Pool[T any] struct {
	free     []T
	factory  func() T
	reset    func(T)
	activate func(T)
	created  int
}

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithActivate registers a hook that runs on every Get, whether the instance
// came from the free list or was freshly constructed.
func WithActivate[T any](fn func(T)) Option[T] {
	return func(p *Pool[T]) {
		p.activate = fn
	}
}

// New creates a pool and pre-warms it with size constructed-and-reset instances
// so the first wave of Gets doesn't allocate.
func New[T any](size int, factory func() T, reset func(T), opts ...Option[T]) *Pool[T] {
	if size < 0 {
		size = 0
	}
	p := &Pool[T]{
		free:    make([]T, 0, size),
		factory: factory,
		reset:   reset,
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		obj := p.construct()
		if p.reset != nil {
			p.reset(obj)
		}
		p.free = append(p.free, obj)
	}
	return p
}

// Get returns a recycled instance, or a new one when the free list is empty.
func (p *Pool[T]) Get() T {
	var obj T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		var zero T
		p.free[n-1] = zero // drop the reference held by the backing array
		p.free = p.free[:n-1]
	} else {
		obj = p.construct()
	}

	if p.activate != nil {
		p.activate(obj)
	}
	return obj
}

// Put resets obj and makes it available to the next Get.
// Callers must not Put the same instance twice without a Get in between.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.free = append(p.free, obj)
}

// Free returns the number of instances waiting in the free list.
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Created returns how many instances the factory has built so far.
func (p *Pool[T]) Created() int {
	return p.created
}

func (p *Pool[T]) construct() T {
	p.created++
	return p.factory()
}
