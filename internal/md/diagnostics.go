package md

import (
	"math"

	"github.com/san-kum/mdsim/internal/vec"
)

// KineticEnergy is Σ ½ m v·v.
func (s *State) KineticEnergy() float64 {
	ke := 0.0
	for _, p := range s.particles {
		ke += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
	}
	return ke
}

// PotentialEnergy is the energy stored by the last force evaluation.
func (s *State) PotentialEnergy() float64 { return s.Potential }

func (s *State) TotalEnergy() float64 { return s.KineticEnergy() + s.Potential }

// DegreesOfFreedom is 3N, less three when the centre-of-mass velocity is
// constrained and there is more than one particle.
func (s *State) DegreesOfFreedom() int {
	n := 3 * len(s.particles)
	if s.Params.RemoveCOM && len(s.particles) > 1 {
		n -= 3
	}
	return n
}

// Temperature is 2 KE / (kB N_df), or zero when there are no degrees of
// freedom.
func (s *State) Temperature() float64 {
	return s.temperatureFor(s.KineticEnergy())
}

func (s *State) temperatureFor(ke float64) float64 {
	ndf := s.DegreesOfFreedom()
	if ndf == 0 {
		return 0
	}
	return 2 * ke / (s.Params.Boltzmann * float64(ndf))
}

func (s *State) Momentum() vec.Vec3 {
	var p vec.Vec3
	for _, pt := range s.particles {
		p = p.Add(pt.Velocity.Mul(pt.Mass))
	}
	return p
}

func (s *State) TotalMass() float64 {
	m := 0.0
	for _, p := range s.particles {
		m += p.Mass
	}
	return m
}

// CenterOfMassVelocity is the mass-weighted mean velocity.
func (s *State) CenterOfMassVelocity() vec.Vec3 {
	return s.Momentum().Mul(1 / s.TotalMass())
}

// RemoveDrift subtracts the centre-of-mass velocity from every particle.
func (s *State) RemoveDrift() {
	vcm := s.CenterOfMassVelocity()
	for i := range s.particles {
		s.particles[i].Velocity = s.particles[i].Velocity.Sub(vcm)
	}
}

func (s *State) Volume() float64 { return s.Box.Volume() }

// Density is the number density N/V.
func (s *State) Density() float64 { return float64(len(s.particles)) / s.Volume() }

// Pressure is the virial pressure (2 KE + Σ r_ij·F_ij) / (3V).
func (s *State) Pressure() float64 {
	return (2*s.KineticEnergy() + s.Virial) / (3 * s.Volume())
}

// ExtendedEnergy is the energy held by active extended variables. For a
// Nose-Hoover thermostat that is ½Qξ² + N_df kB T0 ln s, for a Nose-Hoover
// barostat ½Wη̇² + P0 V.
func (s *State) ExtendedEnergy() float64 {
	e := 0.0
	if s.Thermostat.Mass > 0 {
		e += s.Thermostat.KineticEnergy()
		e += float64(s.DegreesOfFreedom()) * s.Params.Boltzmann * s.Params.TargetTemperature * s.Thermostat.Position
	}
	if s.Barostat.Mass > 0 {
		e += s.Barostat.KineticEnergy()
		e += s.Params.TargetPressure * s.Volume()
	}
	return e
}

// ConservedEnergy is TotalEnergy plus ExtendedEnergy. It is constant up to
// integration error for NVE and Nose-Hoover runs.
func (s *State) ConservedEnergy() float64 { return s.TotalEnergy() + s.ExtendedEnergy() }

// Positions returns a copy of every position.
func (s *State) Positions() []vec.Vec3 {
	out := make([]vec.Vec3, len(s.particles))
	for i, p := range s.particles {
		out[i] = p.Position
	}
	return out
}

// Velocities returns a copy of every velocity.
func (s *State) Velocities() []vec.Vec3 {
	out := make([]vec.Vec3, len(s.particles))
	for i, p := range s.particles {
		out[i] = p.Velocity
	}
	return out
}

func (s *State) Forces() []vec.Vec3 {
	out := make([]vec.Vec3, len(s.particles))
	for i, p := range s.particles {
		out[i] = p.Force
	}
	return out
}

// MaxForce is the largest force magnitude on any particle.
func (s *State) MaxForce() float64 {
	m := 0.0
	for _, p := range s.particles {
		m = math.Max(m, p.Force.Len())
	}
	return m
}

// Finite reports whether every position and velocity is finite. It returns
// the index of the first offending particle otherwise.
func (s *State) Finite() (int, bool) {
	for i, p := range s.particles {
		for axis := 0; axis < 3; axis++ {
			if !finite(p.Position[axis]) || !finite(p.Velocity[axis]) {
				return i, false
			}
		}
	}
	return -1, true
}
