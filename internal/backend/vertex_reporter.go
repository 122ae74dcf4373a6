package backend

import "github.com/san-kum/ipcsim/internal/geometry"

// VertexReporter contributes vertices to the global vertex buffers.
type VertexReporter interface {
	SimSystem
	ReportCount(info *VertexCountInfo)
	ReportAttributes(info *VertexAttributeInfo) error
	ReportDisplacements(info *VertexDisplacementInfo) error
}

type VertexCountInfo struct {
	count int
}

func (i *VertexCountInfo) Count(n int) { i.count = n }

// Reported is the count set by the reporter.
func (i *VertexCountInfo) Reported() int { return i.count }

// VertexAttributeInfo hands a reporter the slices of the global vertex
// buffers that belong to it.
type VertexAttributeInfo struct {
	positions     View[geometry.Vector3]
	restPositions View[geometry.Vector3]
	contactIDs    View[int]
	coindices     View[int]
}

func NewVertexAttributeInfo(positions, rest []geometry.Vector3, contactIDs, coindices []int, r Range) *VertexAttributeInfo {
	return &VertexAttributeInfo{
		positions:     Subview(positions, r),
		restPositions: Subview(rest, r),
		contactIDs:    Subview(contactIDs, r),
		coindices:     Subview(coindices, r),
	}
}

func (i *VertexAttributeInfo) Positions() View[geometry.Vector3]     { return i.positions }
func (i *VertexAttributeInfo) RestPositions() View[geometry.Vector3] { return i.restPositions }
func (i *VertexAttributeInfo) ContactElementIDs() View[int]          { return i.contactIDs }

// Coindices maps each global vertex back to its index inside the reporter.
func (i *VertexAttributeInfo) Coindices() View[int] { return i.coindices }

// VertexDisplacementInfo exposes the reporter's current positions and the
// displacements it must write for this step.
type VertexDisplacementInfo struct {
	positions     View[geometry.Vector3]
	displacements View[geometry.Vector3]
	frame         uint64
}

func NewVertexDisplacementInfo(positions, displacements []geometry.Vector3, r Range, frame uint64) *VertexDisplacementInfo {
	return &VertexDisplacementInfo{
		positions:     Subview(positions, r),
		displacements: Subview(displacements, r),
		frame:         frame,
	}
}

func (i *VertexDisplacementInfo) Positions() View[geometry.Vector3]     { return i.positions }
func (i *VertexDisplacementInfo) Displacements() View[geometry.Vector3] { return i.displacements }
func (i *VertexDisplacementInfo) Frame() uint64                         { return i.frame }
