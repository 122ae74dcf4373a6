package geometry

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
)

// ApplyTransform splits an instanced complex into one complex per instance.
// Output i keeps only instance i's attributes, has its positions transformed
// by instance i's matrix, and carries an identity transform afterwards.
// Everything not touched shares storage with sc.
func ApplyTransform(sc *SimplicialComplex) ([]*SimplicialComplex, error) {
	n := sc.Instances().Size()
	out := make([]*SimplicialComplex, 0, n)

	for i := 0; i < n; i++ {
		r := sc.Share()
		r.Instances().Resize(1)
		if err := r.Instances().CopyFrom(sc.Instances(), attribute.CopyRange(0, i, 1), nil, nil); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}

		t := r.Transforms().MutView()
		if !t[0].IsIdentity() {
			pos := r.Positions().MutView()
			for j, p := range pos {
				pos[j] = t[0].TransformPoint(p)
			}
		}
		t[0] = Identity()
		out = append(out, r)
	}
	return out, nil
}
