package attribute

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch indicates a slot exists under the name with another element type.
	ErrTypeMismatch = errors.New("attribute: element type mismatch")

	// ErrSizeMismatch indicates two slots or collections disagree on row count.
	ErrSizeMismatch = errors.New("attribute: row count mismatch")

	// ErrOutOfRange indicates a copy touched rows outside a slot.
	ErrOutOfRange = errors.New("attribute: row index out of range")
)

// TypeMismatchError reports the slot name and both element types.
type TypeMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: element type is %s, requested %s", e.Name, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}
