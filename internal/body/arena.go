package body

// Arena is a dense append-only store handing out 1-based indices, so that
// zero stays free for the "no node" sentinel.
type Arena[T any] struct {
	data []T
}

// NewArena returns an arena whose storage is preallocated to capHint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data)) // #nosec G115 -- node counts fit uint32
}

// Get returns the element at a 1-based index, or nil for index zero.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the underlying storage read-only.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) // #nosec G115 -- node counts fit uint32
}
