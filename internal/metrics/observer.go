package metrics

import "github.com/san-kum/ipcsim/internal/geometry"

// Frame is what an engine hands observers after each advance.
type Frame struct {
	Index         uint64
	Dt            float64
	Gravity       geometry.Vector3
	Positions     []geometry.Vector3
	Displacements []geometry.Vector3
}

type Observer interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}
