package thermostat

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
)

// Andersen redraws the velocity of each particle from the Maxwell-Boltzmann
// distribution at T0 with probability 1 − exp(−ν dt) per step. Collisions
// do not conserve total momentum, so NewAndersen clears Params.RemoveCOM and
// the temperature counts the full 3N degrees of freedom.
type Andersen struct {
	integrators.NoHooks
	Frequency float64
	rng       *rand.Rand

	Collisions int
}

func NewAndersen(s *md.State, frequency float64, rng *rand.Rand) (*Andersen, error) {
	if err := md.RequirePositive("collision frequency", frequency); err != nil {
		return nil, err
	}
	if err := requireDt(s); err != nil {
		return nil, err
	}
	if err := requireTarget(s); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, md.Invalid("rng", nil, "a random source is required")
	}
	s.Params.RemoveCOM = false
	return &Andersen{Frequency: frequency, rng: rng}, nil
}

func (a *Andersen) Name() string { return "andersen" }

func (a *Andersen) Probability(dt float64) float64 {
	return 1 - math.Exp(-a.Frequency*dt)
}

func (a *Andersen) PostStep(s *md.State) {
	p := a.Probability(s.Params.Dt)
	kT := s.Params.Boltzmann * s.Params.TargetTemperature
	ps := s.Particles()
	for i := range ps {
		if a.rng.Float64() < p {
			ps[i].Velocity = maxwellBoltzmann(a.rng, kT, ps[i].Mass)
			a.Collisions++
		}
	}
}
