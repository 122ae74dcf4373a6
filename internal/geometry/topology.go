package geometry

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
)

const topoSlot = "topo"

// Topology is an abstract simplicial complex: index sets per dimension,
// stored in shareable single-slot collections.
type Topology struct {
	vertices   *attribute.Collection
	edges      *attribute.Collection
	triangles  *attribute.Collection
	tetrahedra *attribute.Collection
}

func indexCollection[I any](values []I) *attribute.Collection {
	c := attribute.NewCollection()
	c.Resize(len(values))
	var zero I
	copy(attribute.MustCreate(c, topoSlot, zero).MutView(), values)
	return c
}

// NewTopology panics with ErrIndexOutOfRange if a simplex references a
// vertex outside [0, numVertices).
func NewTopology(numVertices int, edges []Vector2i, triangles []Vector3i, tetrahedra []Vector4i) *Topology {
	for i, e := range edges {
		checkSimplex(numVertices, "edge", i, e[:])
	}
	for i, f := range triangles {
		checkSimplex(numVertices, "triangle", i, f[:])
	}
	for i, t := range tetrahedra {
		checkSimplex(numVertices, "tetrahedron", i, t[:])
	}

	verts := make([]int, numVertices)
	for i := range verts {
		verts[i] = i
	}
	return &Topology{
		vertices:   indexCollection(verts),
		edges:      indexCollection(edges),
		triangles:  indexCollection(triangles),
		tetrahedra: indexCollection(tetrahedra),
	}
}

func checkSimplex(n int, kind string, i int, idx []int) {
	for _, v := range idx {
		if v < 0 || v >= n {
			panic(fmt.Errorf("%w: %s %d references vertex %d of %d", ErrIndexOutOfRange, kind, i, v, n))
		}
	}
}

func (t *Topology) Share() *Topology {
	return &Topology{
		vertices:   t.vertices.Share(),
		edges:      t.edges.Share(),
		triangles:  t.triangles.Share(),
		tetrahedra: t.tetrahedra.Share(),
	}
}

func topoOf[I any](c *attribute.Collection) *attribute.Slot[I] {
	s, _ := attribute.Find[I](c, topoSlot)
	return s
}

func (t *Topology) Vertices() *attribute.Slot[int]        { return topoOf[int](t.vertices) }
func (t *Topology) Edges() *attribute.Slot[Vector2i]      { return topoOf[Vector2i](t.edges) }
func (t *Topology) Triangles() *attribute.Slot[Vector3i]  { return topoOf[Vector3i](t.triangles) }
func (t *Topology) Tetrahedra() *attribute.Slot[Vector4i] { return topoOf[Vector4i](t.tetrahedra) }
