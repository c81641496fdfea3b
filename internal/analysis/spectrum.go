package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed series.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod is the period of the strongest non-zero frequency of a
// series sampled every dt.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, ErrTooShort
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, errors.New("analysis: series is constant")
	}
	return float64(len(data)) * dt / float64(best), nil
}

// PeakPeriod is the mean spacing of local maxima above the series mean. Each
// peak position is refined with a parabola through its neighbours.
func PeakPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 3 {
		return 0, ErrTooShort
	}
	mean := stat.Mean(data, nil)

	var peaks []float64
	for i := 1; i < len(data)-1; i++ {
		if data[i] <= mean || data[i] < data[i-1] || data[i] <= data[i+1] {
			continue
		}
		a, b, c := data[i-1], data[i], data[i+1]
		offset := 0.0
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
		peaks = append(peaks, float64(i)+offset)
	}
	if len(peaks) < 2 {
		return 0, errors.New("analysis: fewer than two peaks")
	}
	return (peaks[len(peaks)-1] - peaks[0]) / float64(len(peaks)-1) * dt, nil
}
