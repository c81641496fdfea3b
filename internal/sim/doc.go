// Package sim drives a molecular dynamics run.
//
// A [Simulator] owns an md.State, a velocity-Verlet integrator and the
// coupling schemes applied around it. [Simulator.Advance] performs exactly
// one step; [Simulator.Run] loops over Advance with sampling, metrics,
// observers, logging and Prometheus export.
//
// # Stability
//
// The physics core never fails at runtime. Run checks every step for
// non-finite positions or velocities and stops with a [*StepError] wrapping
// [ErrUnstable] when one appears.
package sim
