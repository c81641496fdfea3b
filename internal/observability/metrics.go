package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/mdsim/internal/md"
)

// Collector bundles the Prometheus metrics of a simulation run.
type Collector struct {
	gatherer prometheus.Gatherer

	Steps        prometheus.Counter
	StepDuration prometheus.Histogram
	Degeneracies *prometheus.CounterVec

	Temperature     prometheus.Gauge
	KineticEnergy   prometheus.Gauge
	PotentialEnergy prometheus.Gauge
	ConservedEnergy prometheus.Gauge
	Pressure        prometheus.Gauge
	Volume          prometheus.Gauge
}

// NewCollector registers the simulation metrics against reg, defaulting to
// the global registry when nil. Registering twice on the same registry
// returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mdsim_steps_total",
		Help: "Number of completed integration steps.",
	}), "mdsim_steps_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mdsim_step_duration_seconds",
		Help:    "Wall-clock time of one integration step.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}), "mdsim_step_duration_seconds")
	if err != nil {
		return nil, err
	}

	degeneracies, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mdsim_degeneracies_total",
		Help: "Numerical degeneracies recovered during force evaluation and coupling, by kind.",
	}, []string{"kind"}), "mdsim_degeneracies_total")
	if err != nil {
		return nil, err
	}

	c := &Collector{
		gatherer:     gatherer,
		Steps:        steps,
		StepDuration: duration,
		Degeneracies: degeneracies,
	}

	gauge := func(name, help string) prometheus.Gauge {
		if err != nil {
			return nil
		}
		var g prometheus.Gauge
		g, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}), name)
		return g
	}
	c.Temperature = gauge("mdsim_temperature", "Instantaneous kinetic temperature.")
	c.KineticEnergy = gauge("mdsim_kinetic_energy", "Total kinetic energy.")
	c.PotentialEnergy = gauge("mdsim_potential_energy", "Potential energy of the last force evaluation.")
	c.ConservedEnergy = gauge("mdsim_conserved_energy", "Total energy plus thermostat and barostat contributions.")
	c.Pressure = gauge("mdsim_pressure", "Virial pressure.")
	c.Volume = gauge("mdsim_volume", "Box volume.")
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveStep counts one step and its wall-clock duration.
func (c *Collector) ObserveStep(d time.Duration) {
	if c == nil {
		return
	}
	c.Steps.Inc()
	c.StepDuration.Observe(d.Seconds())
}

// Record sets the thermodynamic gauges from s.
func (c *Collector) Record(s *md.State) {
	if c == nil {
		return
	}
	ke := s.KineticEnergy()
	c.Temperature.Set(s.Temperature())
	c.KineticEnergy.Set(ke)
	c.PotentialEnergy.Set(s.Potential)
	c.ConservedEnergy.Set(s.ConservedEnergy())
	c.Pressure.Set(s.Pressure())
	c.Volume.Set(s.Volume())
}

// AddDegeneracies adds the increments in delta to the per-kind counters.
func (c *Collector) AddDegeneracies(delta md.Degeneracies) {
	if c == nil {
		return
	}
	if delta.ClampedPairs > 0 {
		c.Degeneracies.WithLabelValues("clamped_pair").Add(float64(delta.ClampedPairs))
	}
	if delta.ZeroLengthBonds > 0 {
		c.Degeneracies.WithLabelValues("zero_length_bond").Add(float64(delta.ZeroLengthBonds))
	}
	if delta.SkippedRescales > 0 {
		c.Degeneracies.WithLabelValues("skipped_rescale").Add(float64(delta.SkippedRescales))
	}
	if delta.CutoffViolations > 0 {
		c.Degeneracies.WithLabelValues("cutoff_violation").Add(float64(delta.CutoffViolations))
	}
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
