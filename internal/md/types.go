package md

import "github.com/san-kum/mdsim/internal/vec"

// Particle is a point mass. Force is overwritten by every force evaluation.
type Particle struct {
	Position vec.Vec3
	Velocity vec.Vec3
	Force    vec.Vec3
	Mass     float64
	Type     int
}

// LJType is one entry of the Lennard-Jones type table.
type LJType struct {
	Name    string
	Sigma   float64
	Epsilon float64
	Mass    float64
}

// Bond is a harmonic spring between particles I and J of the same molecule.
// Indices are local to the molecule that declares the bond.
type Bond struct {
	I, J int
	R0   float64
	K    float64
}

// Collection is an ordered, bond-free set of particles.
type Collection struct {
	Particles []Particle
}

// Molecule is an ordered set of particles plus the bonds between them.
type Molecule struct {
	Name      string
	Particles []Particle
	Bonds     []Bond
}

// Clone returns a deep copy that shares no memory with m.
func (m Molecule) Clone() Molecule {
	c := Molecule{
		Name:      m.Name,
		Particles: make([]Particle, len(m.Particles)),
		Bonds:     make([]Bond, len(m.Bonds)),
	}
	copy(c.Particles, m.Particles)
	copy(c.Bonds, m.Bonds)
	return c
}

// Translate returns a copy of m with every particle shifted by d.
func (m Molecule) Translate(d vec.Vec3) Molecule {
	c := m.Clone()
	for i := range c.Particles {
		c.Particles[i].Position = c.Particles[i].Position.Add(d)
	}
	return c
}

// Centroid is the unweighted mean position of the molecule's particles.
func (m Molecule) Centroid() vec.Vec3 {
	var sum vec.Vec3
	if len(m.Particles) == 0 {
		return sum
	}
	for _, p := range m.Particles {
		sum = sum.Add(p.Position)
	}
	return sum.Mul(1 / float64(len(m.Particles)))
}

// Replicate clones template n times. place(i) gives the translation applied
// to the i-th copy.
func Replicate(template Molecule, n int, place func(i int) vec.Vec3) []Molecule {
	out := make([]Molecule, n)
	for i := 0; i < n; i++ {
		out[i] = template.Translate(place(i))
	}
	return out
}
