// Package thermostat implements velocity initialisation and the temperature
// and pressure coupling schemes applied around each velocity-Verlet step.
//
// Every scheme is a [Coupler]. Thermostats act on velocities; barostats
// rescale the box and particle positions after the drift:
//
//   - [Berendsen]: weak-coupling velocity rescale
//   - [NoseHoover]: extended-system friction ξ with thermal mass Q
//   - [Andersen]: stochastic collisions with a heat bath
//   - [NoseHooverBarostat]: isotropic strain rate with piston mass W
//   - [BerendsenBarostat]: weak-coupling isotropic box rescale
//
// Constructors return an md.ConfigurationError for degenerate coupling
// constants. At runtime nothing fails: a rescale at zero temperature is
// skipped and counted on State.Degeneracies.
package thermostat
