package metrics

import "math"

// Energy averages the total energy of equal-mass vertices over observed frames.
// Velocity is taken as displacement / dt; potential is measured against gravity.
type Energy struct {
	name        string
	mass        float64
	samples     int
	totalEnergy float64
}

func NewEnergy(mass float64) *Energy {
	return &Energy{
		name: "energy",
		mass: mass,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f Frame) {
	e.totalEnergy += frameEnergy(f, e.mass)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

func frameEnergy(f Frame, mass float64) float64 {
	var ke, pe float64
	for i, x := range f.Positions {
		if f.Dt > 0 && i < len(f.Displacements) {
			v := f.Displacements[i].Scale(1 / f.Dt)
			ke += 0.5 * mass * v.Dot(v)
		}
		pe -= mass * f.Gravity.Dot(x)
	}
	return ke + pe
}

type EnergyDrift struct {
	name          string
	mass          float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(mass float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		mass: mass,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f Frame) {
	energy := frameEnergy(f, e.mass)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
