// Package geometry composes attribute collections into geometric entities.
//
//   - [Geometry]: meta attributes (one row) plus instance attributes (one row
//     per instanced copy, always carrying a transform)
//   - [SimplicialComplex]: a geometry with a [Topology] and one attribute
//     collection per simplex dimension
//   - [ApplyTransform]: de-instancing into single-instance geometries
//
// # Sharing
//
// Share is the only way to duplicate a geometry. The duplicate aliases every
// attribute slot until one side writes to it:
//
//	mesh := geometry.UnitCube()
//	rest := mesh.Share()
//	mesh.Positions().Set(0, geometry.Vector3{0, 0, -1}) // rest is untouched
package geometry
