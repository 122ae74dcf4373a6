package sanity

import (
	"fmt"
	"strings"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/scene"
)

// FinitePositions rejects any vertex position holding NaN or Inf.
type FinitePositions struct{}

func (FinitePositions) Name() string { return "finite_positions" }

func (FinitePositions) Check(s *scene.Scene) (Result, string) {
	var bad []string
	for _, slot := range s.Geometries() {
		for i, p := range slot.Geometry.Positions().View() {
			if !p.IsFinite() {
				bad = append(bad, fmt.Sprintf("geometry %d vertex %d", slot.ID, i))
				break
			}
		}
	}
	if len(bad) > 0 {
		return Error, "non-finite positions: " + strings.Join(bad, ", ")
	}
	return Success, ""
}

// AffineTransforms rejects instance transforms with a projective row.
type AffineTransforms struct{}

func (AffineTransforms) Name() string { return "affine_transforms" }

func (AffineTransforms) Check(s *scene.Scene) (Result, string) {
	var bad []string
	for _, slot := range s.Geometries() {
		for i, m := range slot.Geometry.Transforms().View() {
			if !m.IsAffine() {
				bad = append(bad, fmt.Sprintf("geometry %d instance %d", slot.ID, i))
			}
		}
	}
	if len(bad) > 0 {
		return Error, "non-affine transforms: " + strings.Join(bad, ", ")
	}
	return Success, ""
}

// ConstitutionRegistered rejects geometries whose constitution UID is missing
// from the scene's constitution tabular.
type ConstitutionRegistered struct{}

func (ConstitutionRegistered) Name() string { return "constitution_registered" }

func (ConstitutionRegistered) Check(s *scene.Scene) (Result, string) {
	tab := s.ConstitutionTabular()
	var bad []string
	for _, slot := range s.Geometries() {
		uid, ok := attribute.Find[uint64](slot.Geometry.Meta(), builtin.ConstitutionUID)
		if !ok || uid.At(0) == 0 {
			continue
		}
		if !tab.Contains(uid.At(0)) {
			bad = append(bad, fmt.Sprintf("geometry %d uses %d", slot.ID, uid.At(0)))
		}
	}
	if len(bad) > 0 {
		return Error, "unregistered constitutions: " + strings.Join(bad, ", ")
	}
	return Success, ""
}

// MissingConstitution warns about geometries no backend system will pick up.
type MissingConstitution struct{}

func (MissingConstitution) Name() string { return "missing_constitution" }

func (MissingConstitution) Check(s *scene.Scene) (Result, string) {
	var missing []string
	for _, slot := range s.Geometries() {
		uid, ok := attribute.Find[uint64](slot.Geometry.Meta(), builtin.ConstitutionUID)
		if !ok || uid.At(0) == 0 {
			missing = append(missing, fmt.Sprintf("%d", slot.ID))
		}
	}
	if len(missing) > 0 {
		return Warning, "geometries without constitution: " + strings.Join(missing, ", ")
	}
	return Success, ""
}
