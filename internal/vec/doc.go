// Package vec provides the 3D vector type and the orthorhombic periodic box
// used by every other part of the simulator.
//
//   - [Vec3]: value-type vector (mathgl's mgl64.Vec3)
//   - [Box]: periodic simulation box with positive edges
//   - [MinimumImage]: nearest periodic image of a displacement
//   - [Wrap]: reduction of a position into the primary cell
//
// # Periodicity
//
// MinimumImage is the only place periodicity enters force evaluation:
//
//	d := vec.MinimumImage(box, a.Sub(b))
//	r := d.Len()
package vec
