package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/observability"
	"github.com/san-kum/mdsim/internal/thermostat"
)

type Simulator struct {
	state     *md.State
	integ     *integrators.VelocityVerlet
	couplers  []thermostat.Coupler
	hooks     integrators.Hooks
	metrics   []Metric
	observers []Observer

	log       logging.Logger
	collector *observability.Collector

	ready bool
}

func New(state *md.State, integ *integrators.VelocityVerlet, couplers ...thermostat.Coupler) *Simulator {
	chain := make(integrators.Chain, 0, len(couplers))
	for _, c := range couplers {
		chain = append(chain, c)
	}
	return &Simulator{
		state:    state,
		integ:    integ,
		couplers: couplers,
		hooks:    chain,
		log:      logging.Noop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Noop()
	}
	s.log = l
}

func (s *Simulator) SetCollector(c *observability.Collector) { s.collector = c }

func (s *Simulator) State() *md.State { return s.state }

func (s *Simulator) Couplers() []thermostat.Coupler { return s.couplers }

// Init evaluates the initial forces. Advance and Run call it on first use.
func (s *Simulator) Init() {
	if s.ready {
		return
	}
	s.integ.Init(s.state)
	s.ready = true
}

// Advance performs exactly one step. It returns a *StepError wrapping
// ErrUnstable when the step produced a non-finite position or velocity.
func (s *Simulator) Advance() error {
	s.Init()
	before := s.state.Degeneracies
	start := time.Now()

	s.integ.Step(s.state, s.hooks)

	s.collector.ObserveStep(time.Since(start))
	s.collector.AddDegeneracies(diff(s.state.Degeneracies, before))

	if i, ok := s.state.Finite(); !ok {
		return &StepError{Step: s.state.Step, Time: s.state.Time, Particle: i, Err: ErrUnstable}
	}
	return nil
}

func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.Init()

	st := s.state
	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/every+1),
		Metrics: make(map[string]float64),
	}
	result.Samples = append(result.Samples, SampleOf(st))
	s.collector.Record(st)

	e0 := st.ConservedEnergy()
	deg0 := st.Degeneracies
	lastDeg := deg0
	start := time.Now()

	s.log.Info(ctx, "run started",
		logging.Int("particles", st.Len()),
		logging.String("kind", st.Kind().String()),
		logging.Int("steps", cfg.Steps),
		logging.Float("dt", st.Params.Dt),
	)

	finish := func() {
		result.Elapsed = time.Since(start)
		result.Degeneracies = diff(st.Degeneracies, deg0)
		if e0 != 0 {
			result.EnergyDrift = math.Abs(st.ConservedEnergy()-e0) / math.Abs(e0)
		}
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		if err := s.Advance(); err != nil {
			finish()
			s.log.Error(ctx, "run aborted", logging.Err(err))
			return result, err
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(st)
		}
		for _, o := range s.observers {
			o.OnStep(st)
		}

		if st.Degeneracies != lastDeg {
			d := diff(st.Degeneracies, lastDeg)
			s.log.Warn(ctx, "numerical degeneracy",
				logging.Int("step", st.Step),
				logging.Int("clamped_pairs", d.ClampedPairs),
				logging.Int("zero_length_bonds", d.ZeroLengthBonds),
				logging.Int("skipped_rescales", d.SkippedRescales),
				logging.Int("cutoff_violations", d.CutoffViolations),
			)
			lastDeg = st.Degeneracies
		}

		if st.Step%every == 0 || i == cfg.Steps-1 {
			sample := SampleOf(st)
			result.Samples = append(result.Samples, sample)
			s.collector.Record(st)
			s.log.Debug(ctx, "sample",
				logging.Int("step", sample.Step),
				logging.Float("temperature", sample.Temperature),
				logging.Float("total", sample.Total),
			)
		}
	}

	finish()
	s.log.Info(ctx, "run finished",
		logging.Int("steps", result.StepsTaken),
		logging.Float("energy_drift", result.EnergyDrift),
		logging.Int("degeneracies", result.Degeneracies.Total()),
		logging.Any("elapsed", result.Elapsed),
	)
	return result, nil
}

func validateConfig(cfg RunConfig) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func diff(a, b md.Degeneracies) md.Degeneracies {
	return md.Degeneracies{
		ClampedPairs:     a.ClampedPairs - b.ClampedPairs,
		ZeroLengthBonds:  a.ZeroLengthBonds - b.ZeroLengthBonds,
		SkippedRescales:  a.SkippedRescales - b.SkippedRescales,
		CutoffViolations: a.CutoffViolations - b.CutoffViolations,
	}
}
