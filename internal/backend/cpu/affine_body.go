package cpu

import (
	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/geometry"
)

const KindAffineBody backend.Kind = "affine_body"

// AffineBodyReporter moves every instance of an affine-body geometry as one
// rigid body. Retrieve writes the motion back into the instance transforms.
type AffineBodyReporter struct {
	kinematicReporter
}

func NewAffineBodyReporter() *AffineBodyReporter {
	return &AffineBodyReporter{kinematicReporter: kinematicReporter{uid: builtin.AffineBodyUID}}
}

func (r *AffineBodyReporter) Kind() backend.Kind { return KindAffineBody }
func (r *AffineBodyReporter) Name() string       { return string(KindAffineBody) }

func (r *AffineBodyReporter) Build(info *backend.BuildInfo) error {
	return r.build(info, r, true)
}

func (r *AffineBodyReporter) Bodies() int { return len(r.bodies) }

func (r *AffineBodyReporter) Retrieve() {
	for _, b := range r.bodies {
		t := geometry.Translation(r.offset(b)).Mul(b.transform)
		b.slot.Geometry.Transforms().Set(b.instance, t)
	}
}
