package cpu

import "github.com/san-kum/ipcsim/internal/backend"

// SystemFactory creates one system for e. Factories run in order, so a
// system's dependencies must come before it.
type SystemFactory func(e *Engine) backend.SimSystem

// DefaultSystems is the system table of the cpu engine.
func DefaultSystems() []SystemFactory {
	return []SystemFactory{
		func(*Engine) backend.SimSystem { return NewGlobalVertexManager() },
		func(*Engine) backend.SimSystem { return NewAffineBodyReporter() },
		func(*Engine) backend.SimSystem { return NewFiniteElementReporter() },
		func(*Engine) backend.SimSystem { return NewContactSystem() },
		func(e *Engine) backend.SimSystem { return NewDumpSystem(e.store) },
	}
}
