package thermostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

// NoseHooverBarostat is an isotropic extended-system barostat. The strain
// rate η̇ lives in State.Barostat:
//
//	d(η̇)/dt = 3V (P − P0) / W
//
// Box edges and positions scale by exp(η̇ dt) after the drift, and the
// velocities feel a drag exp(−η̇ dt/2) on each side of the step.
type NoseHooverBarostat struct {
	W float64
}

func NewNoseHooverBarostat(s *md.State, w float64) (*NoseHooverBarostat, error) {
	if err := md.RequirePositive("barostat w", w); err != nil {
		return nil, err
	}
	if err := requireDt(s); err != nil {
		return nil, err
	}
	s.Barostat = md.ExtendedVar{Mass: w}
	return &NoseHooverBarostat{W: w}, nil
}

func (b *NoseHooverBarostat) Name() string { return "nose-hoover-barostat" }

func (b *NoseHooverBarostat) accel(s *md.State) float64 {
	return 3 * s.Volume() * (s.Pressure() - s.Params.TargetPressure) / b.W
}

func (b *NoseHooverBarostat) PreStep(s *md.State) {
	h := 0.5 * s.Params.Dt
	x := &s.Barostat
	x.Velocity += h * b.accel(s)
	s.ScaleVelocities(math.Exp(-x.Velocity * h))
}

func (b *NoseHooverBarostat) PostDrift(s *md.State) {
	dt := s.Params.Dt
	s.Barostat.Position += s.Barostat.Velocity * dt
	scaleBox(s, math.Exp(s.Barostat.Velocity*dt))
}

func (b *NoseHooverBarostat) PostStep(s *md.State) {
	h := 0.5 * s.Params.Dt
	x := &s.Barostat
	s.ScaleVelocities(math.Exp(-x.Velocity * h))
	x.Velocity += h * b.accel(s)
}

// BerendsenBarostat rescales the box by
//
//	μ = cbrt(clamp(1 − (dt/τp) β (P0 − P), 0.5, 1.5))
//
// once per step after the drift.
type BerendsenBarostat struct {
	Tau             float64
	Compressibility float64
}

func NewBerendsenBarostat(s *md.State, tau, compressibility float64) (*BerendsenBarostat, error) {
	if err := md.RequirePositive("barostat tau", tau); err != nil {
		return nil, err
	}
	if err := md.RequirePositive("compressibility", compressibility); err != nil {
		return nil, err
	}
	if err := requireDt(s); err != nil {
		return nil, err
	}
	return &BerendsenBarostat{Tau: tau, Compressibility: compressibility}, nil
}

func (b *BerendsenBarostat) Name() string { return "berendsen-barostat" }

// Mu is the linear scale factor for pressure p.
func (b *BerendsenBarostat) Mu(p, p0, dt float64) float64 {
	f := 1 - dt/b.Tau*b.Compressibility*(p0-p)
	f = math.Max(0.5, math.Min(1.5, f))
	return math.Cbrt(f)
}

func (b *BerendsenBarostat) PreStep(*md.State) {}

func (b *BerendsenBarostat) PostDrift(s *md.State) {
	mu := b.Mu(s.Pressure(), s.Params.TargetPressure, s.Params.Dt)
	if mu != 1 {
		scaleBox(s, mu)
	}
}

func (b *BerendsenBarostat) PostStep(*md.State) {}

// scaleBox scales the box and every position about the origin and rewraps.
func scaleBox(s *md.State, f float64) {
	s.Box = s.Box.Scale(f)
	ps := s.Particles()
	for i := range ps {
		ps[i].Position = vec.Wrap(s.Box, ps[i].Position.Mul(f))
	}
}
