package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/thermostat"
)

// ThermostatFactory and BarostatFactory build a coupler for s from its
// config section. A nil coupler means none.
type ThermostatFactory func(s *md.State, cfg config.ThermostatConfig, rng *rand.Rand) (thermostat.Coupler, error)
type BarostatFactory func(s *md.State, cfg config.BarostatConfig) (thermostat.Coupler, error)

type Registry struct {
	thermostats map[string]ThermostatFactory
	barostats   map[string]BarostatFactory
	metrics     map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		thermostats: make(map[string]ThermostatFactory),
		barostats:   make(map[string]BarostatFactory),
		metrics:     make(map[string]func() sim.Metric),
	}

	r.thermostats["none"] = func(*md.State, config.ThermostatConfig, *rand.Rand) (thermostat.Coupler, error) {
		return nil, nil
	}
	r.thermostats["berendsen"] = func(s *md.State, cfg config.ThermostatConfig, _ *rand.Rand) (thermostat.Coupler, error) {
		return thermostat.NewBerendsen(s, cfg.Tau)
	}
	r.thermostats["nose-hoover"] = func(s *md.State, cfg config.ThermostatConfig, _ *rand.Rand) (thermostat.Coupler, error) {
		q := cfg.Q
		if q == 0 && cfg.Tau > 0 {
			q = thermostat.MassFor(s, cfg.Tau)
		}
		return thermostat.NewNoseHoover(s, q)
	}
	r.thermostats["andersen"] = func(s *md.State, cfg config.ThermostatConfig, rng *rand.Rand) (thermostat.Coupler, error) {
		return thermostat.NewAndersen(s, cfg.CollisionFrequency, rng)
	}

	r.barostats["none"] = func(*md.State, config.BarostatConfig) (thermostat.Coupler, error) {
		return nil, nil
	}
	r.barostats["berendsen"] = func(s *md.State, cfg config.BarostatConfig) (thermostat.Coupler, error) {
		return thermostat.NewBerendsenBarostat(s, cfg.Tau, cfg.Compressibility)
	}
	r.barostats["nose-hoover"] = func(s *md.State, cfg config.BarostatConfig) (thermostat.Coupler, error) {
		return thermostat.NewNoseHooverBarostat(s, cfg.W)
	}

	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["mean_temperature"] = func() sim.Metric { return metrics.NewMeanTemperature() }
	r.metrics["mean_pressure"] = func() sim.Metric { return metrics.NewMeanPressure() }
	r.metrics["mean_potential"] = func() sim.Metric { return metrics.NewMeanPotential() }
	r.metrics["mean_volume"] = func() sim.Metric { return metrics.NewMeanVolume() }
	r.metrics["degeneracies"] = func() sim.Metric { return metrics.NewDegeneracies() }
	r.metrics["max_force"] = func() sim.Metric { return metrics.NewMaxForce() }

	return r
}

// Thermostat returns nil for "none".
func (r *Registry) Thermostat(s *md.State, cfg config.ThermostatConfig, rng *rand.Rand) (thermostat.Coupler, error) {
	fn, ok := r.thermostats[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown thermostat: %s", cfg.Kind)
	}
	return fn(s, cfg, rng)
}

// Barostat returns nil for "none".
func (r *Registry) Barostat(s *md.State, cfg config.BarostatConfig) (thermostat.Coupler, error) {
	fn, ok := r.barostats[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown barostat: %s", cfg.Kind)
	}
	return fn(s, cfg)
}

func (r *Registry) Metric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListThermostats() []string { return sortedKeys(r.thermostats) }
func (r *Registry) ListBarostats() []string   { return sortedKeys(r.barostats) }
func (r *Registry) ListMetrics() []string     { return sortedKeys(r.metrics) }

// DefaultMetrics picks the metrics that make sense for the ensemble in cfg.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	names := []string{"energy_drift", "mean_temperature", "mean_potential", "degeneracies"}
	if cfg.Barostat.Kind != "none" {
		names = append(names, "mean_pressure", "mean_volume")
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, _ := r.Metric(name)
		out = append(out, m)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
