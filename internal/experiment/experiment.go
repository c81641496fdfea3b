package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/minimize"
	"github.com/san-kum/mdsim/internal/observability"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/thermostat"
)

// Experiment is a fully wired run built from a config.
type Experiment struct {
	cfg        *config.Config
	state      *md.State
	forces     *forcefield.ForceField
	simulator  *sim.Simulator
	randSource *rand.Rand
	log        logging.Logger

	Minimization *minimize.Result
}

// New builds the state, force field, couplers and simulator described by
// cfg. One random source seeded from cfg.Seed feeds velocity initialisation
// and any stochastic thermostat.
func New(cfg *config.Config, reg *Registry, log logging.Logger) (*Experiment, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if log == nil {
		log = logging.Noop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		log:        log.With(logging.String("run", cfg.Name)),
	}

	s, err := config.BuildWithRand(cfg, e.randSource)
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	e.state = s

	ff, err := forcefield.New(s, forcefield.Options{
		MinDistance:      cfg.ForceField.MinDistance,
		Cutoff:           cfg.ForceField.Cutoff,
		BondMinimumImage: cfg.ForceField.BondMinimumImage,
		Workers:          cfg.ForceField.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("force field: %w", err)
	}
	e.forces = ff

	var couplers []thermostat.Coupler
	th, err := reg.Thermostat(s, cfg.Thermostat, e.randSource)
	if err != nil {
		return nil, fmt.Errorf("thermostat: %w", err)
	}
	if th != nil {
		couplers = append(couplers, th)
	}
	bs, err := reg.Barostat(s, cfg.Barostat)
	if err != nil {
		return nil, fmt.Errorf("barostat: %w", err)
	}
	if bs != nil {
		couplers = append(couplers, bs)
	}

	e.simulator = sim.New(s, integrators.NewVelocityVerlet(ff), couplers...)
	e.simulator.SetLogger(e.log)
	for _, m := range reg.DefaultMetrics(cfg) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

// Minimize runs steepest descent when the config enables it. A run that
// stops short of the force tolerance is logged and kept.
func (e *Experiment) Minimize(ctx context.Context) error {
	if !e.cfg.Minimize.Enabled {
		return nil
	}
	res, err := minimize.SteepestDescent(ctx, e.state, e.forces, minimize.Options{
		MaxIterations:  e.cfg.Minimize.MaxIterations,
		ForceTolerance: e.cfg.Minimize.ForceTolerance,
		Step:           e.cfg.Minimize.Step,
	}, e.log)
	e.Minimization = &res
	if err != nil && !isNotConverged(err) {
		return err
	}
	if err != nil {
		e.log.Warn(ctx, "minimization did not converge", logging.Err(err))
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	if err := e.Minimize(ctx); err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, sim.RunConfig{
		Steps:       e.cfg.Integrator.Steps,
		SampleEvery: e.cfg.Integrator.SampleEvery,
	})
}

func (e *Experiment) SetCollector(c *observability.Collector) { e.simulator.SetCollector(c) }

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) State() *md.State { return e.state }

func (e *Experiment) ForceField() *forcefield.ForceField { return e.forces }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
