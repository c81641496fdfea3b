package thermostat_test

import (
	"math"

	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"

	. "github.com/onsi/gomega"
)

var argon = []md.LJType{{Name: "Ar", Sigma: 1, Epsilon: 1, Mass: 1}}

// latticeFluid places n³ particles on a simple cubic lattice at the given
// number density.
func latticeFluid(n int, density float64, params md.Params) *md.State {
	count := n * n * n
	edge := math.Cbrt(float64(count) / density)
	spacing := edge / float64(n)

	ps := make([]md.Particle, 0, count)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				ps = append(ps, md.Particle{
					Position: vec.Vec3{
						(float64(i) + 0.5) * spacing,
						(float64(j) + 0.5) * spacing,
						(float64(k) + 0.5) * spacing,
					},
					Mass: 1,
				})
			}
		}
	}

	s, err := md.NewCollectionState(vec.Cube(edge), argon, md.Collection{Particles: ps}, params)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func newIntegrator(s *md.State) *integrators.VelocityVerlet {
	ff, err := forcefield.New(s, forcefield.DefaultOptions())
	Expect(err).NotTo(HaveOccurred())
	v := integrators.NewVelocityVerlet(ff)
	v.Init(s)
	return v
}
