package cpu

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/scene"
)

// restorer takes back positions recovered from a dump.
type restorer interface {
	Restore(positions backend.View[geometry.Vector3])
}

// retriever writes its current state back into the scene.
type retriever interface {
	backend.SimSystem
	Retrieve()
}

// body is one de-instanced copy of a scene geometry.
type body struct {
	slot      *scene.GeometrySlot
	instance  int
	start     int
	count     int
	transform geometry.Matrix4x4
	fixed     bool
}

// kinematicReporter reports the vertices of every geometry with one
// constitution and moves them along v = v0 + g*t.
type kinematicReporter struct {
	backend.SystemBase

	uid     uint64
	dt      float64
	gravity geometry.Vector3

	bodies     []body
	initial    []geometry.Vector3
	current    []geometry.Vector3
	rest       []geometry.Vector3
	velocity   []geometry.Vector3
	contactIDs []int
	fixed      []bool
}

// build registers self with the vertex manager. perInstanceFixed reads
// is_fixed from instances instead of vertices.
func (r *kinematicReporter) build(info *backend.BuildInfo, self backend.VertexReporter, perInstanceFixed bool) error {
	s := info.Scene
	if !s.ConstitutionTabular().Contains(r.uid) {
		return backend.Shutdown("constitution %s is not in the tabular", builtin.ConstitutionName(r.uid))
	}

	vm, err := backend.Require[*GlobalVertexManager](info, KindGlobalVertexManager)
	if err != nil {
		return err
	}

	cfg := s.Info()
	r.dt = cfg.Dt
	r.gravity = geometry.Vector3(cfg.Gravity)

	for _, slot := range s.Geometries() {
		uid, ok := attribute.Find[uint64](slot.Geometry.Meta(), builtin.ConstitutionUID)
		if !ok || uid.At(0) != r.uid {
			continue
		}
		if err := r.collect(slot, perInstanceFixed); err != nil {
			return fmt.Errorf("geometry %d: %w", slot.ID, err)
		}
	}
	if len(r.bodies) == 0 {
		return backend.Shutdown("no %s geometry in scene", builtin.ConstitutionName(r.uid))
	}

	vm.AddReporter(self)
	return nil
}

func (r *kinematicReporter) collect(slot *scene.GeometrySlot, perInstanceFixed bool) error {
	parts, err := geometry.ApplyTransform(slot.Geometry)
	if err != nil {
		return err
	}
	rests, err := geometry.ApplyTransform(slot.Rest)
	if err != nil {
		return err
	}

	contactID := 0
	if id, ok := attribute.Find[int](slot.Geometry.Meta(), builtin.ContactElementID); ok {
		contactID = id.At(0)
	}
	transforms := slot.Geometry.Transforms().View()

	for i, part := range parts {
		b := body{
			slot:      slot,
			instance:  i,
			start:     len(r.current),
			count:     part.Positions().Size(),
			transform: transforms[i],
		}

		var v0 geometry.Vector3
		if v, ok := attribute.Find[geometry.Vector3](part.Instances(), builtin.Velocity); ok {
			v0 = v.At(0)
		}
		if perInstanceFixed {
			if f, ok := attribute.Find[int](part.Instances(), builtin.IsFixed); ok {
				b.fixed = f.At(0) != 0
			}
		}
		vertexFixed, hasVertexFixed := geometry.FindAttribute[int](part.Vertices(), builtin.IsFixed)

		restPos := rests[i].Positions().View()
		for j, p := range part.Positions().View() {
			r.initial = append(r.initial, p)
			r.current = append(r.current, p)
			if j < len(restPos) {
				r.rest = append(r.rest, restPos[j])
			} else {
				r.rest = append(r.rest, p)
			}
			r.velocity = append(r.velocity, v0)
			r.contactIDs = append(r.contactIDs, contactID)
			r.fixed = append(r.fixed, b.fixed || (!perInstanceFixed && hasVertexFixed && vertexFixed.At(j) != 0))
		}
		r.bodies = append(r.bodies, b)
	}
	return nil
}

func (r *kinematicReporter) ReportCount(info *backend.VertexCountInfo) {
	info.Count(len(r.current))
}

func (r *kinematicReporter) ReportAttributes(info *backend.VertexAttributeInfo) error {
	copy(info.Positions().Slice(), r.current)
	copy(info.RestPositions().Slice(), r.rest)
	copy(info.ContactElementIDs().Slice(), r.contactIDs)
	coindices := info.Coindices()
	for i := range r.current {
		coindices.Set(i, i)
	}
	return nil
}

// ReportDisplacements writes one semi-implicit Euler step and commits it.
func (r *kinematicReporter) ReportDisplacements(info *backend.VertexDisplacementInfo) error {
	disp := info.Displacements()
	t := r.dt * float64(info.Frame()+1)
	for i := range r.current {
		if r.fixed[i] {
			continue
		}
		v := r.velocity[i].Add(r.gravity.Scale(t))
		d := v.Scale(r.dt)
		disp.Set(i, d)
		r.current[i] = r.current[i].Add(d)
	}
	return nil
}

func (r *kinematicReporter) Restore(positions backend.View[geometry.Vector3]) {
	copy(r.current, positions.Slice())
}

// offset is how far body b has moved from where it started.
func (r *kinematicReporter) offset(b body) geometry.Vector3 {
	if b.count == 0 {
		return geometry.Vector3{}
	}
	return r.current[b.start].Sub(r.initial[b.start])
}
