package integrators

import (
	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

// Forces overwrites every particle force and records potential and virial on
// the state. *forcefield.ForceField implements it.
type Forces interface {
	Compute(s *md.State) forcefield.Result
}

type VelocityVerlet struct {
	forces Forces
	last   forcefield.Result
}

func NewVelocityVerlet(forces Forces) *VelocityVerlet {
	return &VelocityVerlet{forces: forces}
}

// Init evaluates the forces of the initial configuration. It must run once
// before the first Step.
func (v *VelocityVerlet) Init(s *md.State) forcefield.Result {
	v.last = v.forces.Compute(s)
	return v.last
}

// Last is the breakdown of the most recent force evaluation.
func (v *VelocityVerlet) Last() forcefield.Result { return v.last }

// Step advances s by Params.Dt. hooks may be nil.
func (v *VelocityVerlet) Step(s *md.State, hooks Hooks) {
	if hooks == nil {
		hooks = NoHooks{}
	}
	dt := s.Params.Dt
	ps := s.Particles()

	hooks.PreStep(s)

	kick(ps, 0.5*dt)
	for i := range ps {
		ps[i].Position = vec.Wrap(s.Box, ps[i].Position.Add(ps[i].Velocity.Mul(dt)))
	}

	hooks.PostDrift(s)

	v.last = v.forces.Compute(s)
	kick(ps, 0.5*dt)

	hooks.PostStep(s)

	s.Step++
	s.Time += dt
}

func kick(ps []md.Particle, h float64) {
	for i := range ps {
		ps[i].Velocity = ps[i].Velocity.Add(ps[i].Force.Mul(h / ps[i].Mass))
	}
}
