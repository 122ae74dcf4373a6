package cpu

import "errors"

var (
	// ErrNonFinite indicates a vertex position holding NaN or Inf after a step.
	ErrNonFinite = errors.New("cpu: non-finite vertex position")

	// ErrIntersection indicates two contact vertices at zero distance.
	ErrIntersection = errors.New("cpu: contact vertices intersect")

	// ErrLayoutMismatch indicates a dump whose vertex count differs from the
	// current layout.
	ErrLayoutMismatch = errors.New("cpu: dump does not match vertex layout")
)
