package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrNoWork = errors.New("analysis: no work values")

// Jarzynski accumulates work values from repeated non-equilibrium pulls.
type Jarzynski struct {
	work []float64
}

func (j *Jarzynski) Add(w ...float64) { j.work = append(j.work, w...) }

func (j *Jarzynski) Len() int { return len(j.work) }

// FreeEnergy returns ΔF = -kT ln <exp(-W/kT)>. The exponential average is
// evaluated in log space.
func (j *Jarzynski) FreeEnergy(kT float64) (float64, error) {
	if len(j.work) == 0 {
		return 0, ErrNoWork
	}
	if !(kT > 0) {
		return 0, errors.New("analysis: kT must be positive")
	}
	scaled := make([]float64, len(j.work))
	for i, w := range j.work {
		scaled[i] = -w / kT
	}
	return -kT * (floats.LogSumExp(scaled) - math.Log(float64(len(scaled)))), nil
}

// Cumulant is the second order estimate <W> - var(W)/(2kT), exact for
// Gaussian work distributions.
func (j *Jarzynski) Cumulant(kT float64) (float64, error) {
	if len(j.work) == 0 {
		return 0, ErrNoWork
	}
	if !(kT > 0) {
		return 0, errors.New("analysis: kT must be positive")
	}
	mean, variance := stat.PopMeanVariance(j.work, nil)
	return mean - variance/(2*kT), nil
}

// Dissipated is <W> - ΔF.
func (j *Jarzynski) Dissipated(kT float64) (float64, error) {
	df, err := j.FreeEnergy(kT)
	if err != nil {
		return 0, err
	}
	return stat.Mean(j.work, nil) - df, nil
}
