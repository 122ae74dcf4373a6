package cpu

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/geometry"
)

const KindGlobalVertexManager backend.Kind = "global_vertex_manager"

// GlobalVertexManager owns the global vertex buffers. Vertex reporters
// register with it while building.
type GlobalVertexManager struct {
	backend.SystemBase

	device     compute.Device
	aggregator *backend.Aggregator[backend.VertexReporter]

	positions     *compute.Buffer[geometry.Vector3]
	rest          *compute.Buffer[geometry.Vector3]
	displacements *compute.Buffer[geometry.Vector3]
	contactIDs    *compute.Buffer[int]
	coindices     *compute.Buffer[int]

	frame uint64
}

func NewGlobalVertexManager() *GlobalVertexManager {
	return &GlobalVertexManager{
		positions:     compute.NewBuffer[geometry.Vector3](0),
		rest:          compute.NewBuffer[geometry.Vector3](0),
		displacements: compute.NewBuffer[geometry.Vector3](0),
		contactIDs:    compute.NewBuffer[int](0),
		coindices:     compute.NewBuffer[int](0),
	}
}

func (m *GlobalVertexManager) Kind() backend.Kind { return KindGlobalVertexManager }
func (m *GlobalVertexManager) Name() string       { return string(KindGlobalVertexManager) }

func (m *GlobalVertexManager) Build(info *backend.BuildInfo) error {
	m.device = info.Device
	m.aggregator = backend.NewAggregator[backend.VertexReporter](info.Device, vertexProtocol{m}, info.Metrics)
	return nil
}

// AddReporter appends r to the layout order.
func (m *GlobalVertexManager) AddReporter(r backend.VertexReporter) { m.aggregator.Add(r) }

// Rebuild recomputes the layout and collects every reporter's attributes.
func (m *GlobalVertexManager) Rebuild() error { return m.aggregator.Rebuild() }

// MarkDirty makes the next Step relayout.
func (m *GlobalVertexManager) MarkDirty() { m.aggregator.MarkDirty() }

// Collect gathers the displacements of frame.
func (m *GlobalVertexManager) Collect(frame uint64) error {
	m.frame = frame
	return m.aggregator.Step()
}

// Apply adds the displacements to the positions.
func (m *GlobalVertexManager) Apply() error {
	pos, disp := m.positions.View(), m.displacements.View()
	return compute.ParallelFor(m.device, len(pos), func(start, end int) error {
		for i := start; i < end; i++ {
			pos[i] = pos[i].Add(disp[i])
		}
		return nil
	})
}

// CheckFinite returns ErrNonFinite for the first bad position.
func (m *GlobalVertexManager) CheckFinite() error {
	for i, p := range m.positions.View() {
		if !p.IsFinite() {
			return fmt.Errorf("%w: vertex %d = %v", ErrNonFinite, i, p)
		}
	}
	return nil
}

func (m *GlobalVertexManager) Total() int             { return m.aggregator.Layout().Total() }
func (m *GlobalVertexManager) Layout() backend.Layout { return m.aggregator.Layout() }
func (m *GlobalVertexManager) Reporters() []backend.VertexReporter {
	return m.aggregator.Active()
}

// Positions returns the device positions. Callers must not resize it.
func (m *GlobalVertexManager) Positions() []geometry.Vector3     { return m.positions.View() }
func (m *GlobalVertexManager) RestPositions() []geometry.Vector3 { return m.rest.View() }
func (m *GlobalVertexManager) Displacements() []geometry.Vector3 { return m.displacements.View() }
func (m *GlobalVertexManager) ContactElementIDs() []int          { return m.contactIDs.View() }
func (m *GlobalVertexManager) Coindices() []int                  { return m.coindices.View() }

// Restore overwrites the positions and hands each reporter its slice.
func (m *GlobalVertexManager) Restore(positions []geometry.Vector3) error {
	if len(positions) != m.positions.Len() {
		return fmt.Errorf("%w: dump has %d vertices, layout has %d", ErrLayoutMismatch, len(positions), m.positions.Len())
	}
	m.positions.Upload(positions)
	clear(m.displacements.View())
	layout := m.aggregator.Layout()
	for i, r := range m.aggregator.Active() {
		if rs, ok := r.(restorer); ok {
			rs.Restore(backend.Subview(m.positions.View(), layout.Range(i)))
		}
	}
	return nil
}

// vertexProtocol adapts the manager to backend.Protocol.
type vertexProtocol struct {
	m *GlobalVertexManager
}

func (p vertexProtocol) Count(r backend.VertexReporter) int {
	var info backend.VertexCountInfo
	r.ReportCount(&info)
	return info.Reported()
}

func (p vertexProtocol) Allocate(total int) {
	p.m.positions.Resize(total)
	p.m.rest.Resize(total)
	p.m.displacements.Resize(total)
	p.m.contactIDs.Resize(total)
	p.m.coindices.Resize(total)
}

func (p vertexProtocol) Attributes(r backend.VertexReporter, rng backend.Range) error {
	m := p.m
	return r.ReportAttributes(backend.NewVertexAttributeInfo(
		m.positions.View(), m.rest.View(), m.contactIDs.View(), m.coindices.View(), rng))
}

func (p vertexProtocol) Displacements(r backend.VertexReporter, rng backend.Range) error {
	disp := p.m.displacements.View()
	clear(disp[rng.Start:rng.End()])
	return r.ReportDisplacements(backend.NewVertexDisplacementInfo(p.m.positions.View(), disp, rng, p.m.frame))
}
