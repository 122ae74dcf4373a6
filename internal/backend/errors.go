package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSystem indicates a second system of an already registered kind.
	ErrDuplicateSystem = errors.New("backend: system kind already registered")

	// ErrDependencyCycle indicates systems requiring each other during build.
	ErrDependencyCycle = errors.New("backend: dependency cycle")

	// ErrKindMismatch indicates a registered system is not of the requested type.
	ErrKindMismatch = errors.New("backend: system kind has unexpected type")

	// ErrNegativeCount indicates a reporter reported fewer than zero elements.
	ErrNegativeCount = errors.New("backend: negative element count")

	// ErrRangeViolation indicates a write outside a reporter's assigned range.
	ErrRangeViolation = errors.New("backend: access outside assigned range")
)

// SoftFailure is the build error that shuts a single system down without
// aborting the backend.
type SoftFailure struct {
	Reason string
}

func (e *SoftFailure) Error() string {
	return "shutdown: " + e.Reason
}

// Shutdown returns a SoftFailure with a formatted reason.
func Shutdown(format string, args ...any) error {
	return &SoftFailure{Reason: fmt.Sprintf(format, args...)}
}

// IsSoftFailure reports whether err is or wraps a SoftFailure.
func IsSoftFailure(err error) bool {
	var soft *SoftFailure
	return errors.As(err, &soft)
}
