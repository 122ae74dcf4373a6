package world

import "github.com/san-kum/ipcsim/internal/scene"

// Status is an engine's post-call error report.
type Status struct {
	Err error
}

func (s Status) HasError() bool { return s.Err != nil }

// Engine is the backend a World delegates to. The world checks Status after
// every call.
type Engine interface {
	Init(s *scene.Scene)
	Advance()
	Sync()
	Retrieve()
	Backward()
	Dump() bool
	Recover(frame uint64) bool
	Frame() uint64
	Status() Status
}
