package cpu

import (
	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/geometry"
	"go.uber.org/zap"
)

const KindFiniteElement backend.Kind = "finite_element"

// FiniteElementReporter moves finite-element vertices one by one.
type FiniteElementReporter struct {
	kinematicReporter
	logger *zap.Logger
}

func NewFiniteElementReporter() *FiniteElementReporter {
	return &FiniteElementReporter{kinematicReporter: kinematicReporter{uid: builtin.FiniteElementUID}}
}

func (r *FiniteElementReporter) Kind() backend.Kind { return KindFiniteElement }
func (r *FiniteElementReporter) Name() string       { return string(KindFiniteElement) }

func (r *FiniteElementReporter) Build(info *backend.BuildInfo) error {
	r.logger = info.Logger
	return r.build(info, r, false)
}

// Retrieve bakes world positions into single-instance geometries and resets
// their transform. Instanced geometries keep their rest shape.
func (r *FiniteElementReporter) Retrieve() {
	for _, b := range r.bodies {
		geo := b.slot.Geometry
		if geo.Instances().Size() != 1 {
			r.logger.Debug("skipping retrieve of instanced geometry", zap.Int("geometry", b.slot.ID))
			continue
		}
		copy(geo.Positions().MutView(), r.current[b.start:b.start+b.count])
		geo.Transforms().Set(0, geometry.Identity())
	}
}
