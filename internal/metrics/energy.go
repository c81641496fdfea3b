package metrics

import (
	"math"

	"github.com/san-kum/mdsim/internal/md"
)

// EnergyDrift tracks the largest relative deviation of the conserved energy
// from its first observed value.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *md.State) {
	energy := s.ConservedEnergy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	scale := math.Abs(e.initial)
	if scale == 0 {
		scale = 1
	}
	if d := math.Abs(energy-e.initial) / scale; d > e.maxDrift {
		e.maxDrift = d
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
