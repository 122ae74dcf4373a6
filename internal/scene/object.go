package scene

import "github.com/san-kum/ipcsim/internal/geometry"

// GeometrySlot pairs a simulated geometry with its rest state.
type GeometrySlot struct {
	ID       int
	ObjectID int
	Geometry *geometry.SimplicialComplex
	Rest     *geometry.SimplicialComplex
}

type Object struct {
	id         int
	name       string
	scene      *Scene
	geometries *Geometries
}

func (o *Object) ID() int                 { return o.id }
func (o *Object) Name() string            { return o.name }
func (o *Object) Geometries() *Geometries { return o.geometries }

// Geometries is the per-object view used to add geometries to a scene.
type Geometries struct {
	object *Object
	slots  []*GeometrySlot
}

// Create adds sc to the scene twice, as simulated geometry and rest
// geometry. Both share sc's storage until one of them is written.
func (g *Geometries) Create(sc *geometry.SimplicialComplex) (geo, rest *geometry.SimplicialComplex) {
	s := g.object.scene
	slot := &GeometrySlot{
		ID:       len(s.geometries),
		ObjectID: g.object.id,
		Geometry: sc.Share(),
		Rest:     sc.Share(),
	}
	s.geometries = append(s.geometries, slot)
	g.slots = append(g.slots, slot)
	return slot.Geometry, slot.Rest
}

func (g *Geometries) Slots() []*GeometrySlot { return g.slots }

type Objects struct {
	scene   *Scene
	objects []*Object
}

func (o *Objects) Create(name string) *Object {
	obj := &Object{id: len(o.objects), name: name, scene: o.scene}
	obj.geometries = &Geometries{object: obj}
	o.objects = append(o.objects, obj)
	return obj
}

func (o *Objects) Find(id int) (*Object, bool) {
	if id < 0 || id >= len(o.objects) {
		return nil, false
	}
	return o.objects[id], true
}

func (o *Objects) Len() int { return len(o.objects) }

func (o *Objects) All() []*Object { return o.objects }
