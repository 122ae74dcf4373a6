package main

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/config"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/scene"
)

// demoScene lays out bodies unit cubes along x, each tossed upward a little
// faster than the last. Affine bodies share one instanced geometry; finite
// elements get one geometry each.
func demoScene(cfg *config.Config, bodies int, constitution string) (*scene.Scene, error) {
	if bodies < 1 {
		return nil, fmt.Errorf("bodies must be positive, got %d", bodies)
	}

	s := scene.New(cfg)
	ground := s.ContactTabular().Create("ground")
	cubes := s.ContactTabular().Create("cubes")
	if err := s.ContactTabular().Insert(ground, cubes, scene.ContactModel{Friction: 0.3, Resistance: 1e9}); err != nil {
		return nil, err
	}

	switch constitution {
	case "abd":
		c := scene.AffineBody()
		s.ConstitutionTabular().Insert(c)
		cube := geometry.UnitCube()
		cube.Instances().Resize(bodies)
		v := attribute.MustCreate(cube.Instances(), builtin.Velocity, geometry.Vector3{})
		for i := 0; i < bodies; i++ {
			cube.Transforms().Set(i, geometry.Translation(spot(i)))
			v.Set(i, toss(i))
		}
		if err := c.ApplyTo(cube); err != nil {
			return nil, err
		}
		if err := s.ContactTabular().ApplyTo(cube, cubes); err != nil {
			return nil, err
		}
		s.Objects().Create("cubes").Geometries().Create(cube)

	case "fem":
		c := scene.FiniteElement()
		s.ConstitutionTabular().Insert(c)
		for i := 0; i < bodies; i++ {
			cube := geometry.UnitCube()
			cube.Transforms().Set(0, geometry.Translation(spot(i)))
			attribute.MustCreate(cube.Instances(), builtin.Velocity, toss(i))
			if err := c.ApplyTo(cube); err != nil {
				return nil, err
			}
			if err := s.ContactTabular().ApplyTo(cube, cubes); err != nil {
				return nil, err
			}
			s.Objects().Create(fmt.Sprintf("cube_%d", i)).Geometries().Create(cube)
		}

	default:
		return nil, fmt.Errorf("unknown constitution %q (want abd or fem)", constitution)
	}
	return s, nil
}

func spot(i int) geometry.Vector3 { return geometry.Vector3{1.5 * float64(i), 0, 0} }
func toss(i int) geometry.Vector3 { return geometry.Vector3{0, 0, 0.5 * float64(i)} }
