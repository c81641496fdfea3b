package thermostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
)

// Berendsen rescales velocities towards the target temperature with
// relaxation time Tau.
type Berendsen struct {
	integrators.NoHooks
	Tau float64
}

func NewBerendsen(s *md.State, tau float64) (*Berendsen, error) {
	if err := md.RequirePositive("berendsen tau", tau); err != nil {
		return nil, err
	}
	if err := requireDt(s); err != nil {
		return nil, err
	}
	if err := requireTarget(s); err != nil {
		return nil, err
	}
	return &Berendsen{Tau: tau}, nil
}

func (b *Berendsen) Name() string { return "berendsen" }

// Lambda is the velocity scale factor sqrt(1 + dt/τ (T0/T − 1)). It reports
// false when T is zero and no rescale is defined.
func (b *Berendsen) Lambda(t, t0, dt float64) (float64, bool) {
	if t == 0 {
		return 1, false
	}
	r := 1 + dt/b.Tau*(t0/t-1)
	if r < 0 {
		r = 0
	}
	return math.Sqrt(r), true
}

func (b *Berendsen) PostStep(s *md.State) {
	lambda, ok := b.Lambda(s.Temperature(), s.Params.TargetTemperature, s.Params.Dt)
	if !ok {
		s.Degeneracies.SkippedRescales++
		return
	}
	if lambda != 1 {
		s.ScaleVelocities(lambda)
	}
}
