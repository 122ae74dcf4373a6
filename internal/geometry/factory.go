package geometry

import "slices"

func sortedEdge(a, b int) Vector2i {
	if a > b {
		a, b = b, a
	}
	return Vector2i{a, b}
}

func sortedFace(a, b, c int) Vector3i {
	v := []int{a, b, c}
	slices.Sort(v)
	return Vector3i{v[0], v[1], v[2]}
}

func dedupe[K comparable](in []K, cmp func(a, b K) int) []K {
	seen := make(map[K]struct{}, len(in))
	out := make([]K, 0, len(in))
	for _, k := range in {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.SortFunc(out, cmp)
	return out
}

func cmpEdge(a, b Vector2i) int { return slices.Compare(a[:], b[:]) }
func cmpFace(a, b Vector3i) int { return slices.Compare(a[:], b[:]) }

func edgesOfFaces(faces []Vector3i) []Vector2i {
	edges := make([]Vector2i, 0, len(faces)*3)
	for _, f := range faces {
		edges = append(edges, sortedEdge(f[0], f[1]), sortedEdge(f[1], f[2]), sortedEdge(f[0], f[2]))
	}
	return dedupe(edges, cmpEdge)
}

// Tetmesh builds a volumetric complex; edges and triangles are derived from
// the tetrahedra.
func Tetmesh(positions []Vector3, tets []Vector4i) *SimplicialComplex {
	faces := make([]Vector3i, 0, len(tets)*4)
	for _, t := range tets {
		faces = append(faces,
			sortedFace(t[0], t[1], t[2]),
			sortedFace(t[0], t[1], t[3]),
			sortedFace(t[0], t[2], t[3]),
			sortedFace(t[1], t[2], t[3]))
	}
	faces = dedupe(faces, cmpFace)
	topo := NewTopology(len(positions), edgesOfFaces(faces), faces, tets)
	return NewSimplicialComplex(topo, positions)
}

// Trimesh builds a surface complex; edges are derived from the faces.
func Trimesh(positions []Vector3, faces []Vector3i) *SimplicialComplex {
	topo := NewTopology(len(positions), edgesOfFaces(faces), faces, nil)
	return NewSimplicialComplex(topo, positions)
}

func Linemesh(positions []Vector3, edges []Vector2i) *SimplicialComplex {
	return NewSimplicialComplex(NewTopology(len(positions), edges, nil, nil), positions)
}

func Pointcloud(positions []Vector3) *SimplicialComplex {
	return NewSimplicialComplex(NewTopology(len(positions), nil, nil, nil), positions)
}

// UnitCube is the [0,1]^3 cube split into five tetrahedra: four corner
// tetrahedra around a regular central one.
func UnitCube() *SimplicialComplex {
	positions := []Vector3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	tets := []Vector4i{
		{0, 1, 2, 4},
		{3, 1, 2, 7},
		{5, 1, 4, 7},
		{6, 2, 4, 7},
		{1, 2, 4, 7},
	}
	return Tetmesh(positions, tets)
}
