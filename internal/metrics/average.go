package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mdsim/internal/md"
)

// blockSize bounds the values an Average holds before folding them into its
// running moments.
const blockSize = 1024

// Average records a scalar of the state every step and reports its mean.
// Memory stays bounded: observations are buffered in blocks and each full
// block is merged into a running count, mean and sum of squared deviations.
type Average struct {
	name  string
	get   func(*md.State) float64
	block []float64

	n    float64
	mean float64
	m2   float64
}

func NewAverage(name string, get func(*md.State) float64) *Average {
	return &Average{name: name, get: get, block: make([]float64, 0, blockSize)}
}

func NewMeanTemperature() *Average {
	return NewAverage("mean_temperature", (*md.State).Temperature)
}

func NewMeanPressure() *Average {
	return NewAverage("mean_pressure", (*md.State).Pressure)
}

func NewMeanPotential() *Average {
	return NewAverage("mean_potential", (*md.State).PotentialEnergy)
}

func NewMeanVolume() *Average {
	return NewAverage("mean_volume", (*md.State).Volume)
}

func (a *Average) Name() string { return a.name }

func (a *Average) Observe(s *md.State) {
	a.block = append(a.block, a.get(s))
	if len(a.block) == blockSize {
		a.n, a.mean, a.m2 = a.moments()
		a.block = a.block[:0]
	}
}

// moments merges the pending block into the running moments without
// mutating a.
func (a *Average) moments() (n, mean, m2 float64) {
	nb := float64(len(a.block))
	if nb == 0 {
		return a.n, a.mean, a.m2
	}
	mb := stat.Mean(a.block, nil)
	var m2b float64
	if nb > 1 {
		m2b = stat.Variance(a.block, nil) * (nb - 1)
	}
	n = a.n + nb
	delta := mb - a.mean
	mean = a.mean + delta*nb/n
	m2 = a.m2 + m2b + delta*delta*a.n*nb/n
	return n, mean, m2
}

// Count is the number of observations since the last Reset.
func (a *Average) Count() int {
	n, _, _ := a.moments()
	return int(n)
}

func (a *Average) Value() float64 {
	_, mean, _ := a.moments()
	return mean
}

// StdDev is the sample standard deviation of the observed values.
func (a *Average) StdDev() float64 {
	n, _, m2 := a.moments()
	if n < 2 {
		return 0
	}
	return math.Sqrt(m2 / (n - 1))
}

func (a *Average) Reset() {
	a.block = a.block[:0]
	a.n, a.mean, a.m2 = 0, 0, 0
}
