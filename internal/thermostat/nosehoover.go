package thermostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/md"
)

// NoseHoover couples the particles to a single friction variable ξ stored in
// State.Thermostat:
//
//	dξ/dt = (2 KE − N_df kB T0) / Q
//
// The friction is applied as a symmetric splitting around the Verlet step:
// half a ξ update and a velocity scale exp(−ξ dt/2) before the first kick,
// the mirror image after the second.
type NoseHoover struct {
	Q float64
}

func NewNoseHoover(s *md.State, q float64) (*NoseHoover, error) {
	if err := md.RequirePositive("nose-hoover q", q); err != nil {
		return nil, err
	}
	if err := requireDt(s); err != nil {
		return nil, err
	}
	if err := requireTarget(s); err != nil {
		return nil, err
	}
	s.Thermostat = md.ExtendedVar{Mass: q}
	return &NoseHoover{Q: q}, nil
}

func (n *NoseHoover) Name() string { return "nose-hoover" }

func (n *NoseHoover) force(s *md.State) float64 {
	g := float64(s.DegreesOfFreedom()) * s.Params.Boltzmann * s.Params.TargetTemperature
	return (2*s.KineticEnergy() - g) / n.Q
}

func (n *NoseHoover) PreStep(s *md.State) {
	h := 0.5 * s.Params.Dt
	x := &s.Thermostat
	x.Velocity += h * n.force(s)
	s.ScaleVelocities(math.Exp(-x.Velocity * h))
	x.Position += x.Velocity * h
}

func (n *NoseHoover) PostDrift(*md.State) {}

func (n *NoseHoover) PostStep(s *md.State) {
	h := 0.5 * s.Params.Dt
	x := &s.Thermostat
	s.ScaleVelocities(math.Exp(-x.Velocity * h))
	x.Position += x.Velocity * h
	x.Velocity += h * n.force(s)
}

// MassFor returns a thermal mass giving a coupling period of roughly tau:
// Q = N_df kB T0 τ².
func MassFor(s *md.State, tau float64) float64 {
	return float64(s.DegreesOfFreedom()) * s.Params.Boltzmann * s.Params.TargetTemperature * tau * tau
}
