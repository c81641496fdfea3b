// Package minimize relaxes particle positions by steepest descent before a
// run.
package minimize

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

var ErrNotConverged = errors.New("minimize: force tolerance not reached")

type Forces interface {
	Compute(s *md.State) forcefield.Result
}

type Options struct {
	MaxIterations  int
	ForceTolerance float64
	// Step is the initial largest displacement of any particle per iteration.
	Step float64
	// MaxStep caps the adaptive step. Zero means ten times Step.
	MaxStep float64
}

func DefaultOptions() Options {
	return Options{MaxIterations: 1000, ForceTolerance: 1e-3, Step: 0.01}
}

type Result struct {
	Iterations    int
	Converged     bool
	InitialEnergy float64
	FinalEnergy   float64
	MaxForce      float64
}

func (o Options) validate() error {
	if o.MaxIterations <= 0 {
		return md.Invalid("minimize max iterations", o.MaxIterations, "must be positive")
	}
	if err := md.RequirePositive("minimize force tolerance", o.ForceTolerance); err != nil {
		return err
	}
	if err := md.RequirePositive("minimize step", o.Step); err != nil {
		return err
	}
	return md.RequireNonNegative("minimize max step", o.MaxStep)
}

// SteepestDescent moves every particle along its force, scaled so the most
// loaded particle moves by the current step. An accepted move grows the step
// by 1.2, a rejected one halves it and restores the previous positions.
// Velocities are left untouched. It returns ErrNotConverged, alongside the
// partial result, when MaxIterations runs out first.
func SteepestDescent(ctx context.Context, s *md.State, forces Forces, opts Options, log logging.Logger) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if log == nil {
		log = logging.Noop()
	}
	maxStep := opts.MaxStep
	if maxStep == 0 {
		maxStep = 10 * opts.Step
	}

	ps := s.Particles()
	n := len(ps)
	mags := make([]float64, n)
	savedPos := make([]vec.Vec3, n)
	savedForce := make([]vec.Vec3, n)

	maxForce := func() float64 {
		for i, p := range ps {
			mags[i] = p.Force.Len()
		}
		return floats.Max(mags)
	}

	energy := forces.Compute(s).Potential
	res := Result{InitialEnergy: energy}
	fmax := maxForce()
	step := opts.Step

	for res.Iterations < opts.MaxIterations {
		if fmax < opts.ForceTolerance {
			res.Converged = true
			break
		}
		select {
		case <-ctx.Done():
			res.FinalEnergy, res.MaxForce = energy, fmax
			return res, ctx.Err()
		default:
		}
		res.Iterations++

		savedPotential, savedVirial := s.Potential, s.Virial
		scale := step / fmax
		for i := range ps {
			savedPos[i] = ps[i].Position
			savedForce[i] = ps[i].Force
			ps[i].Position = vec.Wrap(s.Box, ps[i].Position.Add(ps[i].Force.Mul(scale)))
		}

		next := forces.Compute(s).Potential
		if next < energy {
			energy = next
			fmax = maxForce()
			step *= 1.2
			if step > maxStep {
				step = maxStep
			}
			continue
		}

		for i := range ps {
			ps[i].Position = savedPos[i]
			ps[i].Force = savedForce[i]
		}
		s.Potential, s.Virial = savedPotential, savedVirial
		step *= 0.5
		if step < 1e-14 {
			log.Debug(ctx, "minimize step underflow", logging.Int("iteration", res.Iterations))
			break
		}
	}

	if !res.Converged && fmax < opts.ForceTolerance {
		res.Converged = true
	}
	res.FinalEnergy = energy
	res.MaxForce = fmax

	log.Info(ctx, "minimization finished",
		logging.Int("iterations", res.Iterations),
		logging.Float("initial_energy", res.InitialEnergy),
		logging.Float("final_energy", res.FinalEnergy),
		logging.Float("max_force", res.MaxForce),
	)
	if !res.Converged {
		return res, fmt.Errorf("%w: max force %.3g after %d iterations", ErrNotConverged, fmax, res.Iterations)
	}
	return res, nil
}
