package backend

import "fmt"

// View is the part of a global buffer one reporter may touch. Indices are
// local to the reporter's range.
type View[T any] struct {
	data   []T
	offset int
}

// Subview clips buf to r. The capacity is clipped as well, so appending to
// Slice never reaches a neighbor's range.
func Subview[T any](buf []T, r Range) View[T] {
	return View[T]{data: buf[r.Start:r.End():r.End()], offset: r.Start}
}

func (v View[T]) Len() int { return len(v.data) }

// Offset is the global index of local index 0.
func (v View[T]) Offset() int { return v.offset }

// At panics with ErrRangeViolation outside [0, Len()).
func (v View[T]) At(i int) T {
	v.check(i)
	return v.data[i]
}

// Set panics with ErrRangeViolation outside [0, Len()).
func (v View[T]) Set(i int, x T) {
	v.check(i)
	v.data[i] = x
}

// Slice exposes the range directly, for bulk copies.
func (v View[T]) Slice() []T { return v.data }

func (v View[T]) check(i int) {
	if i < 0 || i >= len(v.data) {
		panic(fmt.Errorf("%w: local index %d, range [%d, %d)", ErrRangeViolation, i, v.offset, v.offset+len(v.data)))
	}
}
