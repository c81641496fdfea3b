// Package analysis post-processes sampled time series from a run.
//
//   - [PowerSpectrum], [DominantPeriod]: frequency content via FFT
//   - [PeakPeriod]: oscillation period from successive maxima
//   - [BlockAverage]: mean with a correlation-aware standard error
//   - [Jarzynski]: free-energy differences from non-equilibrium work
//
// # Bond vibrations
//
// The period of a diatomic bond can be read off the potential energy series:
//
//	pe := result.Column(func(s sim.Sample) float64 { return s.Potential })
//	period, err := analysis.DominantPeriod(pe, dt*float64(sampleEvery))
//
// The potential oscillates at twice the bond frequency.
package analysis
