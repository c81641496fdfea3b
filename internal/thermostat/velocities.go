package thermostat

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

// InitVelocities draws every velocity component from the Maxwell-Boltzmann
// distribution N(0, sqrt(kB T / m)) and then subtracts the centre-of-mass
// velocity, leaving zero total momentum.
func InitVelocities(s *md.State, temperature float64, rng *rand.Rand) error {
	if err := md.RequireNonNegative("temperature", temperature); err != nil {
		return err
	}
	if rng == nil {
		return md.Invalid("rng", nil, "a random source is required")
	}

	ps := s.Particles()
	for i := range ps {
		ps[i].Velocity = maxwellBoltzmann(rng, s.Params.Boltzmann*temperature, ps[i].Mass)
	}
	s.RemoveDrift()
	return nil
}

func maxwellBoltzmann(rng *rand.Rand, kT, mass float64) vec.Vec3 {
	sigma := math.Sqrt(kT / mass)
	return vec.Vec3{
		rng.NormFloat64() * sigma,
		rng.NormFloat64() * sigma,
		rng.NormFloat64() * sigma,
	}
}
