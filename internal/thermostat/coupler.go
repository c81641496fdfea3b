package thermostat

import (
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
)

// Coupler is a thermostat or barostat.
type Coupler interface {
	integrators.Hooks
	Name() string
}

// None leaves the state untouched (NVE).
type None struct {
	integrators.NoHooks
}

func (None) Name() string { return "none" }

func requireDt(s *md.State) error {
	return md.RequirePositive("dt", s.Params.Dt)
}

func requireTarget(s *md.State) error {
	return md.RequireNonNegative("target temperature", s.Params.TargetTemperature)
}
