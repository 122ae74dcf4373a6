// Package cpu is the reference engine. It runs every backend system on a
// compute.Device and implements world.Engine.
//
// Default systems, in registration order:
//
//   - global_vertex_manager: owns the global vertex buffers and drives the
//     vertex aggregation protocol
//   - affine_body: reports affine-body vertices and moves each body rigidly
//   - finite_element: reports finite-element vertices and moves each vertex
//   - contact: measures the barrier energy of vertex pairs closer than d_hat
//   - dump: saves and loads frames through a storage.Store
//
// Motion is kinematic: each free element follows v = v0 + g*t. Material
// laws are out of scope for this engine.
package cpu
