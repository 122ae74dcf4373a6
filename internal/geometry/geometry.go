package geometry

import (
	"encoding/json"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
)

// Geometry owns the meta and instance attributes common to every geometry kind.
// Geometries are handled by pointer; a struct copy would alias collections
// without accounting for it, so duplicate with Share.
type Geometry struct {
	meta      *attribute.Collection
	instances *attribute.Collection
}

func newGeometry() Geometry {
	g := Geometry{
		meta:      attribute.NewCollection(),
		instances: attribute.NewCollection(),
	}
	g.meta.Resize(1)
	g.instances.Resize(1)
	attribute.MustCreate(g.instances, builtin.Transform, Identity())
	return g
}

func (g *Geometry) shareBase() Geometry {
	return Geometry{meta: g.meta.Share(), instances: g.instances.Share()}
}

// Meta describes the geometry as a whole and always has one row.
func (g *Geometry) Meta() *attribute.Collection { return g.meta }

// Instances has one row per instanced copy.
func (g *Geometry) Instances() *attribute.Collection { return g.instances }

func (g *Geometry) Transforms() *attribute.Slot[Matrix4x4] {
	s, _ := attribute.Find[Matrix4x4](g.instances, builtin.Transform)
	return s
}

func (g *Geometry) Type() string { return "Geometry" }

type geometrySnapshot struct {
	Type      string                `json:"type"`
	Meta      *attribute.Collection `json:"meta"`
	Instances *attribute.Collection `json:"instances"`
}

func (g *Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geometrySnapshot{Type: g.Type(), Meta: g.meta, Instances: g.instances})
}
