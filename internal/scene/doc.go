// Package scene holds everything a world simulates: configuration, the
// constitution and contact tabulars, and the objects whose geometries the
// backend reads.
//
//	s := scene.New(config.DefaultConfig())
//	abd := s.ConstitutionTabular().Insert(scene.AffineBody())
//	cube := geometry.UnitCube()
//	_ = abd.ApplyTo(cube)
//	geo, rest := s.Objects().Create("cube").Geometries().Create(cube)
//
// geo and rest share storage until one of them is written.
package scene
