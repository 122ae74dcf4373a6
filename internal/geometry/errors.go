package geometry

import "errors"

var (
	// ErrPositionCount indicates positions and topology disagree on vertex count.
	ErrPositionCount = errors.New("geometry: position count does not match vertex count")

	// ErrIndexOutOfRange indicates a simplex references a vertex that does not exist.
	ErrIndexOutOfRange = errors.New("geometry: simplex index out of range")

	// ErrProtectedAttribute indicates an attempt to destroy a slot the complex
	// depends on.
	ErrProtectedAttribute = errors.New("geometry: attribute is protected")
)
