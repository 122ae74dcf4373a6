package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ipcsim/internal/geometry"
)

func restingFrame(z float64) Frame {
	return Frame{
		Dt:            0.1,
		Gravity:       geometry.Vector3{0, 0, -9.81},
		Positions:     []geometry.Vector3{{0, 0, z}},
		Displacements: []geometry.Vector3{{0, 0, 0}},
	}
}

func TestEnergyPotential(t *testing.T) {
	m := NewEnergy(1.0)

	m.Observe(restingFrame(2))
	e1 := m.Value()

	m.Reset()

	expected := 9.81 * 2

	m.Observe(restingFrame(2))
	e2 := m.Value()

	if math.Abs(e1-expected) > 1e-6 {
		t.Errorf("expected energy %f, got %f", expected, e1)
	}

	if math.Abs(e2-expected) > 1e-6 {
		t.Errorf("expected energy %f after reset, got %f", expected, e2)
	}
}

func TestEnergyKinetic(t *testing.T) {
	m := NewEnergy(2.0)
	m.Observe(Frame{
		Dt:            0.5,
		Positions:     []geometry.Vector3{{0, 0, 0}},
		Displacements: []geometry.Vector3{{1, 0, 0}},
	})

	// v = 2, ke = 0.5 * 2 * 4
	if math.Abs(m.Value()-4) > 1e-9 {
		t.Errorf("expected kinetic energy 4, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(1.0)

	m.Observe(restingFrame(1))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	d := NewEnergyDrift(1.0)
	d.Observe(restingFrame(2))
	d.Observe(restingFrame(1))
	d.Observe(restingFrame(1.5))

	if math.Abs(d.Value()-0.5) > 1e-9 {
		t.Errorf("expected drift 0.5, got %f", d.Value())
	}

	d.Reset()
	if d.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %f", d.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(0.5)
	if s.Value() != 1.0 {
		t.Errorf("empty stability = %f, want 1", s.Value())
	}

	s.Observe(Frame{Displacements: []geometry.Vector3{{0.1, 0, 0}}})
	s.Observe(Frame{Displacements: []geometry.Vector3{{0.1, 0, 0}, {1, 0, 0}}})
	s.Observe(Frame{Displacements: []geometry.Vector3{{math.Inf(1), 0, 0}}})
	s.Observe(Frame{})

	if got := s.Value(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("stability = %f, want 0.5", got)
	}
	if !math.IsInf(s.MaxStep(), 1) {
		t.Errorf("max step = %f, want +Inf", s.MaxStep())
	}

	s.Reset()
	if s.Value() != 1 || s.MaxStep() != 0 {
		t.Error("reset kept history")
	}
	s.Observe(Frame{Displacements: []geometry.Vector3{{0.6, 0, 0}}})
	if s.Value() != 0 {
		t.Errorf("threshold lost on reset: %f", s.Value())
	}
}

func TestDisplacement(t *testing.T) {
	d := NewDisplacement()
	d.Observe(Frame{Displacements: []geometry.Vector3{{3, 4, 0}, {0, 0, 1}}})

	if got := d.Value(); math.Abs(got-3) > 1e-9 {
		t.Errorf("mean displacement = %f, want 3", got)
	}
	d.Reset()
	if d.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
