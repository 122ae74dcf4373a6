package scene

import (
	"slices"

	"github.com/san-kum/ipcsim/internal/attribute"
	"github.com/san-kum/ipcsim/internal/builtin"
	"github.com/san-kum/ipcsim/internal/geometry"
)

// Constitution identifies a constitutive model. The material law itself lives
// in the backend.
type Constitution interface {
	UID() uint64
	Name() string
}

// Identity is a constitution known only by its UID and name.
type Identity struct {
	uid  uint64
	name string
}

func NewIdentity(uid uint64, name string) Identity { return Identity{uid: uid, name: name} }

func AffineBody() Identity {
	return NewIdentity(builtin.AffineBodyUID, builtin.ConstitutionName(builtin.AffineBodyUID))
}

func FiniteElement() Identity {
	return NewIdentity(builtin.FiniteElementUID, builtin.ConstitutionName(builtin.FiniteElementUID))
}

func Particle() Identity {
	return NewIdentity(builtin.ParticleUID, builtin.ConstitutionName(builtin.ParticleUID))
}

func (c Identity) UID() uint64  { return c.uid }
func (c Identity) Name() string { return c.name }

// ApplyTo tags the geometry's meta with this constitution.
func (c Identity) ApplyTo(sc *geometry.SimplicialComplex) error {
	uid, err := attribute.Create(sc.Meta(), builtin.ConstitutionUID, uint64(0))
	if err != nil {
		return err
	}
	name, err := attribute.Create(sc.Meta(), builtin.Constitution, "")
	if err != nil {
		return err
	}
	uid.Set(0, c.uid)
	name.Set(0, c.name)
	return nil
}

// ConstitutionTabular is an append-only registry of constitutions. UIDs are
// sorted and deduplicated lazily on the first query after an insertion.
type ConstitutionTabular struct {
	constitutions []Constitution
	sorted        bool
	uids          []uint64
}

func NewConstitutionTabular() *ConstitutionTabular {
	return &ConstitutionTabular{sorted: true}
}

func (t *ConstitutionTabular) Insert(c Constitution) Constitution {
	t.constitutions = append(t.constitutions, c)
	t.sorted = false
	return c
}

func (t *ConstitutionTabular) Len() int { return len(t.constitutions) }

// UIDs returns the sorted, unique UIDs. The slice is cached; do not modify it.
func (t *ConstitutionTabular) UIDs() []uint64 {
	t.sortIfNeeded()
	return t.uids
}

func (t *ConstitutionTabular) Contains(uid uint64) bool {
	_, found := slices.BinarySearch(t.UIDs(), uid)
	return found
}

func (t *ConstitutionTabular) sortIfNeeded() {
	if t.sorted {
		return
	}
	uids := make([]uint64, 0, len(t.constitutions))
	for _, c := range t.constitutions {
		uids = append(uids, c.UID())
	}
	slices.Sort(uids)
	t.uids = slices.Compact(uids)
	t.sorted = true
}
