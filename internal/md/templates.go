package md

import (
	"sort"

	"github.com/san-kum/mdsim/internal/vec"
)

const (
	H2BondLength    = 0.74
	H2BondStiffness = 100.0
	// h2Stretch is the initial bond extension so a fresh molecule vibrates.
	h2Stretch = 0.05
)

// H2 returns a hydrogen molecule centred on the origin, slightly stretched
// from its equilibrium length. Both atoms use LJ type 0.
func H2() Molecule {
	x := 0.5 * (H2BondLength + h2Stretch)
	return Molecule{
		Name: "h2",
		Particles: []Particle{
			{Position: vec.Vec3{-x, 0, 0}, Mass: 1},
			{Position: vec.Vec3{x, 0, 0}, Mass: 1},
		},
		Bonds: []Bond{{I: 0, J: 1, R0: H2BondLength, K: H2BondStiffness}},
	}
}

// Dimer returns two unbonded particles a distance r apart along x.
func Dimer(r float64) Molecule {
	return Molecule{
		Name: "dimer",
		Particles: []Particle{
			{Position: vec.Vec3{-0.5 * r, 0, 0}, Mass: 1},
			{Position: vec.Vec3{0.5 * r, 0, 0}, Mass: 1},
		},
	}
}

var templates = map[string]func() Molecule{
	"h2": H2,
}

// Template returns a fresh copy of a named molecule template.
func Template(name string) (Molecule, bool) {
	f, ok := templates[name]
	if !ok {
		return Molecule{}, false
	}
	return f(), true
}

func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
