// Package md holds the particle and system state of a molecular dynamics run.
//
// The package defines the data model shared by the force field, the
// integrator and the coupling schemes:
//
//   - [Particle]: position, velocity, force, mass and LJ type
//   - [Bond]: harmonic spring between two particles of one molecule
//   - [Collection]: bond-free particles (bulk LJ fluids)
//   - [Molecule]: particles plus bonds; [Replicate] builds ensembles
//   - [State]: tagged union over the two shapes plus box, parameters and
//     the extended thermostat/barostat variables
//
// Whatever the variant, particles live in one contiguous slice returned by
// [State.Particles], so integration code never branches on the shape.
//
// # Thread Safety
//
// State is mutated in place by every step and is NOT safe for concurrent use.
package md
