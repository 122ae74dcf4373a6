package scene

import "github.com/san-kum/ipcsim/internal/config"

type Scene struct {
	info          *config.Config
	constitutions *ConstitutionTabular
	contacts      *ContactTabular
	objects       *Objects
	geometries    []*GeometrySlot
}

// New creates an empty scene; a nil cfg uses config.DefaultConfig.
func New(cfg *config.Config) *Scene {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scene{
		info:          cfg,
		constitutions: NewConstitutionTabular(),
		contacts:      NewContactTabular(),
	}
	s.objects = &Objects{scene: s}
	return s
}

func (s *Scene) Info() *config.Config                      { return s.info }
func (s *Scene) ConstitutionTabular() *ConstitutionTabular { return s.constitutions }
func (s *Scene) ContactTabular() *ContactTabular           { return s.contacts }
func (s *Scene) Objects() *Objects                         { return s.objects }

// Geometries returns every geometry slot in creation order.
func (s *Scene) Geometries() []*GeometrySlot { return s.geometries }
