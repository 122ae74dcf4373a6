package attribute

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Collection maps names to slots that all hold exactly Size() rows.
type Collection struct {
	slots map[string]AnySlot
	size  int
}

func NewCollection() *Collection {
	return &Collection{slots: make(map[string]AnySlot)}
}

// Size is the row count shared by every slot.
func (c *Collection) Size() int { return c.size }

// Len is the number of slots.
func (c *Collection) Len() int { return len(c.slots) }

// Names returns the slot names in ascending order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.slots))
	for name := range c.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the untyped slot or nil.
func (c *Collection) Find(name string) AnySlot {
	return c.slots[name]
}

// Find returns the slot if it exists with element type T.
func Find[T any](c *Collection, name string) (*Slot[T], bool) {
	s, ok := c.slots[name].(*Slot[T])
	return s, ok
}

// Create adds a slot of Size() rows filled with init. Creating an existing
// name with the same type returns the existing slot.
func Create[T any](c *Collection, name string, init T) (*Slot[T], error) {
	if existing, ok := c.slots[name]; ok {
		if s, ok := existing.(*Slot[T]); ok {
			return s, nil
		}
		var zero T
		return nil, &TypeMismatchError{Name: name, Want: fmt.Sprintf("%T", zero), Got: existing.TypeName()}
	}
	s := newSlot(name, c.size, init)
	c.slots[name] = s
	return s, nil
}

// MustCreate is Create for callers that treat a type clash as a programming
// error.
func MustCreate[T any](c *Collection, name string, init T) *Slot[T] {
	s, err := Create(c, name, init)
	if err != nil {
		panic(err)
	}
	return s
}

// Destroy removes the slot; missing names are ignored.
func (c *Collection) Destroy(name string) {
	if s, ok := c.slots[name]; ok {
		s.release()
		delete(c.slots, name)
	}
}

func (c *Collection) Resize(n int) {
	if n < 0 {
		n = 0
	}
	for _, s := range c.slots {
		s.resize(n)
	}
	c.size = n
}

func (c *Collection) Reserve(n int) {
	for _, s := range c.slots {
		s.reserve(n)
	}
}

// Clear drops every row but keeps the slots.
func (c *Collection) Clear() {
	c.Resize(0)
}

// Share returns a collection aliasing every slot of c.
func (c *Collection) Share() *Collection {
	out := &Collection{slots: make(map[string]AnySlot, len(c.slots)), size: c.size}
	for name, s := range c.slots {
		out.slots[name] = s.share()
	}
	return out
}

// CopyFrom copies other's slots into c under the given policy. A non-empty
// include limits the names considered; exclude always wins. Slots missing in
// c are created first. The row count of c is never changed, and c is left
// untouched when any slot cannot be copied.
func (c *Collection) CopyFrom(other *Collection, cp Copy, include, exclude []string) error {
	type pair struct {
		name     string
		dst, src AnySlot
		created  bool
	}
	var pairs []pair
	for _, name := range other.Names() {
		if len(include) > 0 && !slices.Contains(include, name) {
			continue
		}
		if slices.Contains(exclude, name) {
			continue
		}
		src := other.slots[name]
		dst, ok := c.slots[name]
		if !ok {
			dst = src.emptyLike(name, c.size)
		}
		if err := dst.checkCopy(src, cp); err != nil {
			return fmt.Errorf("copy %q: %w", name, err)
		}
		pairs = append(pairs, pair{name: name, dst: dst, src: src, created: !ok})
	}

	for _, p := range pairs {
		if p.created {
			c.slots[p.name] = p.dst
		}
		if err := p.dst.copyFrom(p.src, cp); err != nil {
			return fmt.Errorf("copy %q: %w", p.name, err)
		}
	}
	return nil
}

// Snapshot is the diagnostic form of a collection.
type Snapshot struct {
	Size  int            `json:"size"`
	Slots []SlotSnapshot `json:"slots"`
}

func (c *Collection) Snapshot() Snapshot {
	snap := Snapshot{Size: c.size, Slots: make([]SlotSnapshot, 0, len(c.slots))}
	for _, name := range c.Names() {
		snap.Slots = append(snap.Slots, c.slots[name].snapshot())
	}
	return snap
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}
