package scene

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/geometry"
)

type ContactElement struct {
	ID   int
	Name string
}

type ContactModel struct {
	Friction   float64
	Resistance float64
}

type contactPair struct{ a, b int }

func orderedPair(a, b int) contactPair {
	if a > b {
		a, b = b, a
	}
	return contactPair{a, b}
}

// ContactTabular hands out contact element IDs and stores the pairwise
// contact models. Element 0 always exists.
type ContactTabular struct {
	elements []ContactElement
	models   map[contactPair]ContactModel
	def      ContactModel
}

func NewContactTabular() *ContactTabular {
	return &ContactTabular{
		elements: []ContactElement{{ID: 0, Name: "default"}},
		models:   make(map[contactPair]ContactModel),
		def:      ContactModel{Friction: 0.5, Resistance: 1e9},
	}
}

func (t *ContactTabular) Create(name string) ContactElement {
	e := ContactElement{ID: len(t.elements), Name: name}
	t.elements = append(t.elements, e)
	return e
}

func (t *ContactTabular) Default() ContactElement { return t.elements[0] }

func (t *ContactTabular) Elements() []ContactElement { return t.elements }

func (t *ContactTabular) SetDefaultModel(m ContactModel) { t.def = m }

func (t *ContactTabular) Insert(a, b ContactElement, m ContactModel) error {
	if a.ID >= len(t.elements) || b.ID >= len(t.elements) {
		return fmt.Errorf("scene: contact pair (%d, %d) references unknown element", a.ID, b.ID)
	}
	t.models[orderedPair(a.ID, b.ID)] = m
	return nil
}

// Model returns the model for a pair of element IDs, or the default model.
func (t *ContactTabular) Model(a, b int) ContactModel {
	if m, ok := t.models[orderedPair(a, b)]; ok {
		return m
	}
	return t.def
}

// ApplyTo writes the element's ID into the geometry's meta.
func (t *ContactTabular) ApplyTo(sc *geometry.SimplicialComplex, e ContactElement) error {
	slot, err := attribute.Create(sc.Meta(), builtin.ContactElementID, 0)
	if err != nil {
		return err
	}
	slot.Set(0, e.ID)
	return nil
}
