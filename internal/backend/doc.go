// Package backend hosts the simulation systems of an engine and the protocol
// they use to fill shared device buffers.
//
// # Registry
//
// A [Registry] owns at most one system per [Kind]. BuildSystems builds every
// system in registration order. A system that cannot run in the current
// scene returns [Shutdown] from Build; it is marked invalid, logged and left
// out of everything that follows. Any other build error aborts the backend.
//
//	reg := backend.NewRegistry(logger, nil)
//	reg.Create(NewVertexManager())
//	reg.Create(NewContact())
//	if err := reg.BuildSystems(env); err != nil {
//		return err
//	}
//	reg.CleanupInvalidSystems()
//
// # Aggregation
//
// An [Aggregator] lets independent reporters share one global buffer:
//
//  1. each active reporter reports its element count
//  2. a prefix sum assigns every reporter a disjoint range
//  3. reporters write attributes (once per layout) and displacements
//     (once per step) through views clipped to their range
//
// Both phases end with a device barrier. The layout is recomputed whenever
// a reporter is invalidated or the aggregator is marked dirty.
package backend
