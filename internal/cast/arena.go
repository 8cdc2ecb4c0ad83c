// Package cast models the contract the core consumes from an external C
// front end: a normalized, already-parsed, already-typed AST. The core
// never tokenizes or parses C itself (spec §1); this package only shapes
// the nodes a conforming adapter must hand in.
package cast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena for allocating nodes by 1-based index,
// matching the teacher's ast.Arena shape.
type Arena[T any] struct {
	data []*T
}

// NewArena creates an Arena with capHint as a size hint for the backing slice.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at index, or nil if index is 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return a.data[index-1]
}

// Len returns the number of elements in the arena.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("cast: arena len overflow: %w", err))
	}
	return n
}
