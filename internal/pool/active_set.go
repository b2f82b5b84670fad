package pool

// ActiveSet tracks in-play instances with set semantics.
// Iteration follows insertion order until the next Remove, which swaps the
// last element into the removed slot.
type ActiveSet[T comparable] struct {
	items []T
	index map[T]int
}

// NewActiveSet creates an empty set sized for capacity elements.
func NewActiveSet[T comparable](capacity int) *ActiveSet[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &ActiveSet[T]{
		items: make([]T, 0, capacity),
		index: make(map[T]int, capacity),
	}
}

// Add inserts v. Returns false if v was already present.
func (s *ActiveSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Remove deletes v. Returns false if v was not present.
func (s *ActiveSet[T]) Remove(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}

	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	delete(s.index, v)
	return true
}

// Contains reports whether v is in the set.
func (s *ActiveSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of elements.
func (s *ActiveSet[T]) Len() int {
	return len(s.items)
}

// Items returns the backing slice. It is only valid until the next Add or
// Remove and must not be modified.
func (s *ActiveSet[T]) Items() []T {
	return s.items
}

// AppendTo appends every element to dst and returns the extended slice.
// Use it to iterate safely while elements may be removed.
func (s *ActiveSet[T]) AppendTo(dst []T) []T {
	return append(dst, s.items...)
}

// Clear removes every element.
func (s *ActiveSet[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
	clear(s.index)
}
