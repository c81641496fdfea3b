package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, dt, period float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*float64(i)*dt/period)
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	// 8 full periods in 256 samples
	ps := PowerSpectrum(sine(256, 1, 32))
	require.Len(t, ps, 128)

	best := 0
	for k := range ps {
		if ps[k] > ps[best] {
			best = k
		}
	}
	assert.Equal(t, 8, best)
	assert.InDelta(t, 0, ps[0], 1e-9, "mean is removed")
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		dt     float64
		period float64
		tol    float64
	}{
		{"power of two", 1024, 0.01, 1.28, 1e-9},
		{"not a power of two", 1000, 0.01, 1.0, 1e-9},
		{"between bins", 1000, 0.01, 0.93, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DominantPeriod(sine(tt.n, tt.dt, tt.period), tt.dt)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.period, got, tt.tol+1e-12)
		})
	}
}

func TestDominantPeriodErrors(t *testing.T) {
	_, err := DominantPeriod([]float64{1, 2}, 1)
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = DominantPeriod([]float64{5, 5, 5, 5, 5, 5}, 1)
	assert.Error(t, err)
}

func TestPeakPeriod(t *testing.T) {
	got, err := PeakPeriod(sine(2000, 0.01, 0.73), 0.01)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.73, got, 1e-3)

	_, err = PeakPeriod([]float64{0, 1, 0, -1, 0}, 1)
	assert.Error(t, err, "a single peak has no period")
}

func TestBlockAverage(t *testing.T) {
	constant := make([]float64, 100)
	for i := range constant {
		constant[i] = 2.5
	}
	est, err := BlockAverage(constant, 10)
	require.NoError(t, err)
	assert.Equal(t, 2.5, est.Mean)
	assert.Equal(t, 0.0, est.StdErr)

	rng := rand.New(rand.NewSource(3))
	noise := make([]float64, 10000)
	for i := range noise {
		noise[i] = 1 + rng.NormFloat64()
	}
	est, err = BlockAverage(noise, 20)
	require.NoError(t, err)
	assert.InDelta(t, 1, est.Mean, 0.05)
	// uncorrelated samples: stderr ~ 1/sqrt(N)
	assert.InDelta(t, 0.01, est.StdErr, 0.006)

	_, err = BlockAverage(noise[:3], 5)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestJarzynskiConstantWork(t *testing.T) {
	var j Jarzynski
	j.Add(2, 2, 2)

	df, err := j.FreeEnergy(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 2, df, 1e-12)

	diss, err := j.Dissipated(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 0, diss, 1e-12)
}

func TestJarzynskiKnownValue(t *testing.T) {
	var j Jarzynski
	j.Add(1, 2, 3)

	df, err := j.FreeEnergy(1)
	require.NoError(t, err)
	want := -math.Log((math.Exp(-1) + math.Exp(-2) + math.Exp(-3)) / 3)
	assert.InDelta(t, want, df, 1e-12)
	assert.Less(t, df, 2.0, "ΔF never exceeds the mean work")
}

func TestJarzynskiGaussianWork(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var j Jarzynski
	for i := 0; i < 200000; i++ {
		j.Add(5 + 0.5*rng.NormFloat64())
	}
	// ΔF = μ - σ²/(2kT) for Gaussian work
	want := 5 - 0.25/2

	df, err := j.FreeEnergy(1)
	require.NoError(t, err)
	assert.InDelta(t, want, df, 0.01)

	cum, err := j.Cumulant(1)
	require.NoError(t, err)
	assert.InDelta(t, want, cum, 0.01)
}

func TestJarzynskiLargeWorkIsStable(t *testing.T) {
	var j Jarzynski
	j.Add(1000, 1001)
	df, err := j.FreeEnergy(1)
	require.NoError(t, err)
	assert.False(t, math.IsInf(df, 0) || math.IsNaN(df))
	assert.InDelta(t, 1000-math.Log((1+math.Exp(-1))/2), df, 1e-9)
}

func TestJarzynskiErrors(t *testing.T) {
	var j Jarzynski
	_, err := j.FreeEnergy(1)
	assert.ErrorIs(t, err, ErrNoWork)
	_, err = j.Cumulant(1)
	assert.ErrorIs(t, err, ErrNoWork)

	j.Add(1)
	_, err = j.FreeEnergy(0)
	assert.Error(t, err)
}
