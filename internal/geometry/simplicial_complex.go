package geometry

import (
	"encoding/json"
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
)

// SimplexAttributes binds one topology dimension to its attribute collection.
// The collection's row count always equals the number of simplices, so rows
// are only added or removed together with the topology.
type SimplexAttributes[I any] struct {
	topo     *attribute.Collection
	attrs    *attribute.Collection
	identity bool
}

func (a SimplexAttributes[I]) Topo() *attribute.Slot[I] { return topoOf[I](a.topo) }
func (a SimplexAttributes[I]) Size() int                { return a.attrs.Size() }
func (a SimplexAttributes[I]) Names() []string          { return a.attrs.Names() }

// Find returns the untyped slot or nil.
func (a SimplexAttributes[I]) Find(name string) attribute.AnySlot { return a.attrs.Find(name) }

// Resize changes the simplex count of this dimension. New vertices index
// themselves; new simplices of higher dimension start at the zero index.
func (a SimplexAttributes[I]) Resize(n int) {
	old := a.topo.Size()
	a.topo.Resize(n)
	a.attrs.Resize(n)
	if !a.identity {
		return
	}
	if idx, ok := attribute.Find[int](a.topo, topoSlot); ok {
		for i := old; i < n; i++ {
			idx.Set(i, i)
		}
	}
}

func (a SimplexAttributes[I]) Reserve(n int) {
	a.topo.Reserve(n)
	a.attrs.Reserve(n)
}

func (a SimplexAttributes[I]) Clear() { a.Resize(0) }

// Destroy removes a user slot. Builtin slots the complex depends on cannot be
// destroyed.
func (a SimplexAttributes[I]) Destroy(name string) error {
	if name == topoSlot || (a.identity && name == builtin.Position) {
		return fmt.Errorf("%w: %q", ErrProtectedAttribute, name)
	}
	a.attrs.Destroy(name)
	return nil
}

// CopyFrom copies other's slots into this dimension without changing its
// simplex count.
func (a SimplexAttributes[I]) CopyFrom(other SimplexAttributes[I], cp attribute.Copy, include, exclude []string) error {
	return a.attrs.CopyFrom(other.attrs, cp, include, exclude)
}

func (a SimplexAttributes[I]) MarshalJSON() ([]byte, error) { return a.attrs.MarshalJSON() }

// CreateAttribute creates a slot on one dimension of a complex.
func CreateAttribute[T, I any](a SimplexAttributes[I], name string, init T) (*attribute.Slot[T], error) {
	return attribute.Create(a.attrs, name, init)
}

// MustCreateAttribute panics where CreateAttribute returns an error.
func MustCreateAttribute[T, I any](a SimplexAttributes[I], name string, init T) *attribute.Slot[T] {
	return attribute.MustCreate(a.attrs, name, init)
}

// FindAttribute returns the slot if it exists with element type T.
func FindAttribute[T, I any](a SimplexAttributes[I], name string) (*attribute.Slot[T], bool) {
	return attribute.Find[T](a.attrs, name)
}

type (
	VertexAttributes      = SimplexAttributes[int]
	EdgeAttributes        = SimplexAttributes[Vector2i]
	TriangleAttributes    = SimplexAttributes[Vector3i]
	TetrahedronAttributes = SimplexAttributes[Vector4i]
)

// SimplicialComplex is a geometry made of vertices, edges, triangles and
// tetrahedra, each with its own attribute collection.
type SimplicialComplex struct {
	Geometry

	topo       *Topology
	vertices   *attribute.Collection
	edges      *attribute.Collection
	triangles  *attribute.Collection
	tetrahedra *attribute.Collection
}

// NewSimplicialComplex panics with ErrPositionCount when len(positions) does
// not match the topology's vertex count.
func NewSimplicialComplex(topo *Topology, positions []Vector3) *SimplicialComplex {
	nv := topo.vertices.Size()
	if len(positions) != nv {
		panic(fmt.Errorf("%w: topology has %d vertices, got %d positions", ErrPositionCount, nv, len(positions)))
	}

	sc := &SimplicialComplex{
		Geometry:   newGeometry(),
		topo:       topo,
		vertices:   attribute.NewCollection(),
		edges:      attribute.NewCollection(),
		triangles:  attribute.NewCollection(),
		tetrahedra: attribute.NewCollection(),
	}
	sc.vertices.Resize(nv)
	sc.edges.Resize(topo.edges.Size())
	sc.triangles.Resize(topo.triangles.Size())
	sc.tetrahedra.Resize(topo.tetrahedra.Size())

	pos := attribute.MustCreate(sc.vertices, builtin.Position, Vector3{})
	copy(pos.MutView(), positions)
	return sc
}

// Share returns a complex aliasing every slot and topology index of sc.
func (sc *SimplicialComplex) Share() *SimplicialComplex {
	return &SimplicialComplex{
		Geometry:   sc.shareBase(),
		topo:       sc.topo.Share(),
		vertices:   sc.vertices.Share(),
		edges:      sc.edges.Share(),
		triangles:  sc.triangles.Share(),
		tetrahedra: sc.tetrahedra.Share(),
	}
}

func (sc *SimplicialComplex) Type() string { return "SimplicialComplex" }

func (sc *SimplicialComplex) Topology() *Topology { return sc.topo }

func (sc *SimplicialComplex) Positions() *attribute.Slot[Vector3] {
	s, _ := attribute.Find[Vector3](sc.vertices, builtin.Position)
	return s
}

func (sc *SimplicialComplex) Vertices() VertexAttributes {
	return VertexAttributes{topo: sc.topo.vertices, attrs: sc.vertices, identity: true}
}

func (sc *SimplicialComplex) Edges() EdgeAttributes {
	return EdgeAttributes{topo: sc.topo.edges, attrs: sc.edges}
}

func (sc *SimplicialComplex) Triangles() TriangleAttributes {
	return TriangleAttributes{topo: sc.topo.triangles, attrs: sc.triangles}
}

func (sc *SimplicialComplex) Tetrahedra() TetrahedronAttributes {
	return TetrahedronAttributes{topo: sc.topo.tetrahedra, attrs: sc.tetrahedra}
}

// Dim is the highest populated simplex dimension.
func (sc *SimplicialComplex) Dim() int {
	switch {
	case sc.tetrahedra.Size() > 0:
		return 3
	case sc.triangles.Size() > 0:
		return 2
	case sc.edges.Size() > 0:
		return 1
	}
	return 0
}

type complexSnapshot struct {
	Type       string                `json:"type"`
	Dim        int                   `json:"dim"`
	Meta       *attribute.Collection `json:"meta"`
	Instances  *attribute.Collection `json:"instances"`
	Vertices   *attribute.Collection `json:"vertices"`
	Edges      *attribute.Collection `json:"edges"`
	Triangles  *attribute.Collection `json:"triangles"`
	Tetrahedra *attribute.Collection `json:"tetrahedra"`
}

func (sc *SimplicialComplex) MarshalJSON() ([]byte, error) {
	return json.Marshal(complexSnapshot{
		Type:       sc.Type(),
		Dim:        sc.Dim(),
		Meta:       sc.meta,
		Instances:  sc.instances,
		Vertices:   sc.vertices,
		Edges:      sc.edges,
		Triangles:  sc.triangles,
		Tetrahedra: sc.tetrahedra,
	})
}
