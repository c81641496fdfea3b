// Package forcefield evaluates Lennard-Jones and harmonic bond forces under
// minimum-image periodic boundaries.
//
// A [ForceField] is built once per state. It precomputes the mixed pair
// table and the bonded exclusion set, then [ForceField.Compute] overwrites
// every particle's Force and stores the potential energy and virial on the
// state.
//
// # Degeneracies
//
// Pairs closer than Options.MinDistance are evaluated at MinDistance and
// counted on State.Degeneracies.ClampedPairs. Coincident bonded particles
// contribute energy only and are counted as ZeroLengthBonds. Neither aborts
// the step.
//
// # Parallelism
//
// With Options.Workers > 1 the pair loop is split into contiguous row
// chunks. Each worker accumulates into a private buffer and the buffers are
// merged in worker order, so a fixed worker count gives reproducible forces.
package forcefield
