package attribute

import (
	"fmt"
	"sync/atomic"
)

// storage is the reference-counted block behind one or more slot handles.
type storage[T any] struct {
	values []T
	owners atomic.Int32
}

func newStorage[T any](values []T) *storage[T] {
	s := &storage[T]{values: values}
	s.owners.Store(1)
	return s
}

// Slot is a named column of T, one value per row of its owning collection.
//
// A handle is exclusive when it was created privately or has performed a
// mutating access since it was last shared. IsShared reports the opposite.
type Slot[T any] struct {
	name      string
	def       T
	data      *storage[T]
	exclusive bool
}

func newSlot[T any](name string, n int, init T) *Slot[T] {
	values := make([]T, n)
	for i := range values {
		values[i] = init
	}
	return &Slot[T]{name: name, def: init, data: newStorage(values), exclusive: true}
}

func (s *Slot[T]) Name() string { return s.name }

func (s *Slot[T]) TypeName() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func (s *Slot[T]) Size() int { return len(s.data.values) }

// IsShared reports whether this handle still aliases storage it received
// through sharing. It turns false on the handle's first mutating access.
func (s *Slot[T]) IsShared() bool { return !s.exclusive }

// Default returns the value new rows are filled with.
func (s *Slot[T]) Default() T { return s.def }

// View returns the values without copying. Callers must not write to it.
func (s *Slot[T]) View() []T { return s.data.values }

// MutView returns writable values, cloning the storage first if another
// handle still owns it.
func (s *Slot[T]) MutView() []T {
	s.detach()
	return s.data.values
}

func (s *Slot[T]) At(i int) T { return s.data.values[i] }

func (s *Slot[T]) Set(i int, v T) {
	s.MutView()[i] = v
}

// Fill overwrites every row with v.
func (s *Slot[T]) Fill(v T) {
	values := s.MutView()
	for i := range values {
		values[i] = v
	}
}

func (s *Slot[T]) detach() {
	if s.data.owners.Load() > 1 {
		clone := make([]T, len(s.data.values), cap(s.data.values))
		copy(clone, s.data.values)
		s.data.owners.Add(-1)
		s.data = newStorage(clone)
	}
	s.exclusive = true
}

func (s *Slot[T]) resize(n int) {
	if n == len(s.data.values) {
		return
	}
	if s.data.owners.Load() > 1 {
		values := make([]T, n)
		m := copy(values, s.data.values)
		for i := m; i < n; i++ {
			values[i] = s.def
		}
		s.data.owners.Add(-1)
		s.data = newStorage(values)
		s.exclusive = true
		return
	}
	s.exclusive = true
	values := s.data.values
	if n < len(values) {
		s.data.values = values[:n]
		return
	}
	for len(values) < n {
		values = append(values, s.def)
	}
	s.data.values = values
}

func (s *Slot[T]) reserve(n int) {
	if n <= cap(s.data.values) || s.data.owners.Load() > 1 {
		return
	}
	grown := make([]T, len(s.data.values), n)
	copy(grown, s.data.values)
	s.data.values = grown
}

func (s *Slot[T]) share() AnySlot {
	s.data.owners.Add(1)
	s.exclusive = false
	return &Slot[T]{name: s.name, def: s.def, data: s.data}
}

func (s *Slot[T]) release() {
	s.data.owners.Add(-1)
}

func (s *Slot[T]) emptyLike(name string, n int) AnySlot {
	return newSlot(name, n, s.def)
}

// checkCopy reports whether copyFrom(other, c) would succeed without
// touching either slot.
func (s *Slot[T]) checkCopy(other AnySlot, c Copy) error {
	src, ok := other.(*Slot[T])
	if !ok {
		return &TypeMismatchError{Name: s.name, Want: s.TypeName(), Got: other.TypeName()}
	}

	switch c.kind {
	case copySame:
		if src.Size() != s.Size() {
			return fmt.Errorf("%w: %q has %d rows, source has %d", ErrSizeMismatch, s.name, s.Size(), src.Size())
		}
	case copyRange:
		if c.count < 0 || c.dstOffset < 0 || c.srcOffset < 0 ||
			c.dstOffset+c.count > s.Size() || c.srcOffset+c.count > src.Size() {
			return fmt.Errorf("%w: %q range dst=%d src=%d count=%d", ErrOutOfRange, s.name, c.dstOffset, c.srcOffset, c.count)
		}
	case copyPull:
		if len(c.indices) > s.Size() {
			return fmt.Errorf("%w: %q pulls %d rows into %d", ErrOutOfRange, s.name, len(c.indices), s.Size())
		}
		for _, j := range c.indices {
			if j < 0 || j >= src.Size() {
				return fmt.Errorf("%w: %q pull index %d", ErrOutOfRange, s.name, j)
			}
		}
	case copyPush:
		if len(c.indices) > src.Size() {
			return fmt.Errorf("%w: %q pushes %d rows from %d", ErrOutOfRange, s.name, len(c.indices), src.Size())
		}
		for _, j := range c.indices {
			if j < 0 || j >= s.Size() {
				return fmt.Errorf("%w: %q push index %d", ErrOutOfRange, s.name, j)
			}
		}
	default:
		return fmt.Errorf("attribute: unknown copy policy %d", c.kind)
	}
	return nil
}

func (s *Slot[T]) copyFrom(other AnySlot, c Copy) error {
	if err := s.checkCopy(other, c); err != nil {
		return err
	}
	src := other.(*Slot[T])

	switch c.kind {
	case copySame:
		if src.data == s.data {
			return nil
		}
		s.release()
		src.data.owners.Add(1)
		src.exclusive = false
		s.data = src.data
		s.exclusive = false

	case copyRange:
		dst := s.MutView()
		copy(dst[c.dstOffset:c.dstOffset+c.count], src.View()[c.srcOffset:c.srcOffset+c.count])

	case copyPull:
		values := src.View()
		dst := s.MutView()
		for i, j := range c.indices {
			dst[i] = values[j]
		}

	case copyPush:
		values := src.View()
		dst := s.MutView()
		for i, j := range c.indices {
			dst[j] = values[i]
		}
	}
	return nil
}

func (s *Slot[T]) snapshot() SlotSnapshot {
	return SlotSnapshot{
		Name:   s.name,
		Type:   s.TypeName(),
		Size:   s.Size(),
		Shared: s.IsShared(),
		Values: s.View(),
	}
}

// AnySlot is the type-erased view of a Slot used by collections.
type AnySlot interface {
	Name() string
	TypeName() string
	Size() int
	IsShared() bool

	resize(n int)
	reserve(n int)
	share() AnySlot
	release()
	emptyLike(name string, n int) AnySlot
	checkCopy(other AnySlot, c Copy) error
	copyFrom(other AnySlot, c Copy) error
	snapshot() SlotSnapshot
}

// SlotSnapshot is the diagnostic form of a slot.
type SlotSnapshot struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int    `json:"size"`
	Shared bool   `json:"shared"`
	Values any    `json:"values"`
}
