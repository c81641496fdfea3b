// Package optim sweeps run parameters over a grid and picks the setting that
// minimises a metric, for example the time step with the smallest energy
// drift.
package optim
