// Package integrators advances an md.State by one time step.
//
// [VelocityVerlet] is the only scheme. Thermostats and barostats plug into it
// through [Hooks], called at fixed points of every step:
//
//  1. PreStep
//  2. half kick v += F/m dt/2
//  3. drift x += v dt, then wrap into the box
//  4. PostDrift
//  5. force evaluation at the new positions
//  6. half kick v += F/m dt/2
//  7. PostStep
//  8. Step and Time advance
package integrators
