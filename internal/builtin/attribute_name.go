// Package builtin holds the attribute names and constitution identities shared
// between scene producers and backend consumers.
package builtin

const (
	// Position is the Vector3 slot on a simplicial complex's vertices.
	Position = "position"

	// Transform is the Matrix4x4 slot on a geometry's instances.
	Transform = "transform"

	// ContactElementID is the int slot on a geometry's meta.
	ContactElementID = "contact_element_id"

	// Constitution is the string slot on a geometry's meta naming its model.
	Constitution = "constitution"

	// ConstitutionUID is the uint64 slot on a geometry's meta.
	ConstitutionUID = "constitution_uid"

	// Velocity is an optional Vector3 slot on a geometry's instances.
	Velocity = "velocity"

	// IsFixed is an optional int slot on vertices (finite elements) or instances
	// (affine bodies). Non-zero entries never move.
	IsFixed = "is_fixed"
)
