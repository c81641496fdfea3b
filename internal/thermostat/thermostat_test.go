package thermostat_test

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/thermostat"
	"github.com/san-kum/mdsim/internal/vec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("InitVelocities", func() {
	DescribeTable("leaves zero total momentum",
		func(n int, seed int64) {
			ps := make([]md.Particle, n)
			for i := range ps {
				ps[i] = md.Particle{Position: vec.Vec3{float64(i % 10), float64(i / 10), 1}, Mass: 1 + float64(i%3)}
			}
			s, err := md.NewCollectionState(vec.Cube(20), argon, md.Collection{Particles: ps}, md.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			Expect(thermostat.InitVelocities(s, 1.5, rand.New(rand.NewSource(seed)))).To(Succeed())
			Expect(s.Momentum().Len()).To(BeNumerically("<", 1e-12))
		},
		Entry("single particle", 1, int64(1)),
		Entry("pair", 2, int64(2)),
		Entry("small set", 17, int64(3)),
		Entry("large set", 500, int64(4)),
	)

	It("is reproducible for a fixed seed", func() {
		a := latticeFluid(3, 0.5, md.DefaultParams())
		b := latticeFluid(3, 0.5, md.DefaultParams())
		Expect(thermostat.InitVelocities(a, 1, rand.New(rand.NewSource(42)))).To(Succeed())
		Expect(thermostat.InitVelocities(b, 1, rand.New(rand.NewSource(42)))).To(Succeed())
		Expect(a.Velocities()).To(Equal(b.Velocities()))
	})

	It("samples close to the requested temperature", func() {
		s := latticeFluid(10, 0.5, md.DefaultParams())
		Expect(thermostat.InitVelocities(s, 2, rand.New(rand.NewSource(5)))).To(Succeed())
		Expect(s.Temperature()).To(BeNumerically("~", 2, 0.15))
	})

	It("rejects a negative temperature", func() {
		s := latticeFluid(2, 0.5, md.DefaultParams())
		Expect(thermostat.InitVelocities(s, -1, rand.New(rand.NewSource(1)))).To(MatchError(md.ErrConfiguration))
	})
})

var _ = Describe("Constructors", func() {
	var s *md.State

	BeforeEach(func() {
		s = latticeFluid(2, 0.5, md.DefaultParams())
	})

	DescribeTable("reject degenerate coupling constants",
		func(build func() error) {
			Expect(build()).To(MatchError(md.ErrConfiguration))
		},
		Entry("berendsen tau zero", func() error { _, err := thermostat.NewBerendsen(s, 0); return err }),
		Entry("berendsen tau negative", func() error { _, err := thermostat.NewBerendsen(s, -1); return err }),
		Entry("nose-hoover q zero", func() error { _, err := thermostat.NewNoseHoover(s, 0); return err }),
		Entry("barostat w zero", func() error { _, err := thermostat.NewNoseHooverBarostat(s, 0); return err }),
		Entry("berendsen barostat tau zero", func() error { _, err := thermostat.NewBerendsenBarostat(s, 0, 1); return err }),
		Entry("berendsen barostat compressibility zero", func() error { _, err := thermostat.NewBerendsenBarostat(s, 1, 0); return err }),
		Entry("andersen frequency zero", func() error {
			_, err := thermostat.NewAndersen(s, 0, rand.New(rand.NewSource(1)))
			return err
		}),
		Entry("andersen without rng", func() error { _, err := thermostat.NewAndersen(s, 1, nil); return err }),
		Entry("negative target temperature", func() error {
			s.Params.TargetTemperature = -1
			_, err := thermostat.NewBerendsen(s, 1)
			return err
		}),
		Entry("zero dt", func() error {
			s.Params.Dt = 0
			_, err := thermostat.NewNoseHoover(s, 1)
			return err
		}),
	)
})

var _ = Describe("Berendsen", func() {
	It("leaves velocities unchanged at the target temperature", func() {
		s := latticeFluid(3, 0.5, md.DefaultParams())
		Expect(thermostat.InitVelocities(s, 1, rand.New(rand.NewSource(9)))).To(Succeed())
		s.Params.TargetTemperature = s.Temperature()
		before := s.Velocities()

		b, err := thermostat.NewBerendsen(s, 0.1)
		Expect(err).NotTo(HaveOccurred())
		b.PostStep(s)

		Expect(s.Velocities()).To(Equal(before))
	})

	It("skips and counts a rescale at zero temperature", func() {
		s := latticeFluid(2, 0.5, md.DefaultParams())
		b, err := thermostat.NewBerendsen(s, 0.1)
		Expect(err).NotTo(HaveOccurred())

		b.PostStep(s)
		Expect(s.Degeneracies.SkippedRescales).To(Equal(1))
		Expect(s.KineticEnergy()).To(BeZero())
	})

	It("clamps a negative radicand to zero", func() {
		b := &thermostat.Berendsen{Tau: 0.001}
		lambda, ok := b.Lambda(10, 0, 0.005)
		Expect(ok).To(BeTrue())
		Expect(lambda).To(BeZero())
	})

	It("relaxes towards the target", func() {
		params := md.DefaultParams()
		params.TargetTemperature = 2
		s := latticeFluid(4, 0.4, params)
		Expect(thermostat.InitVelocities(s, 0.5, rand.New(rand.NewSource(11)))).To(Succeed())

		b, err := thermostat.NewBerendsen(s, 0.05)
		Expect(err).NotTo(HaveOccurred())
		integ := newIntegrator(s)
		for i := 0; i < 2000; i++ {
			integ.Step(s, b)
		}
		Expect(s.Temperature()).To(BeNumerically("~", 2, 0.2))
	})
})

var _ = Describe("NoseHoover", func() {
	It("drives the time-averaged temperature to the target", func() {
		params := md.DefaultParams()
		params.TargetTemperature = 1.5
		s := latticeFluid(4, 0.6, params)
		Expect(thermostat.InitVelocities(s, 0.5, rand.New(rand.NewSource(21)))).To(Succeed())

		nh, err := thermostat.NewNoseHoover(s, thermostat.MassFor(s, 0.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Thermostat.Mass).To(Equal(nh.Q))

		integ := newIntegrator(s)
		for i := 0; i < 4000; i++ {
			integ.Step(s, nh)
		}

		sum := 0.0
		const samples = 10000
		for i := 0; i < samples; i++ {
			integ.Step(s, nh)
			sum += s.Temperature()
		}
		Expect(sum / samples).To(BeNumerically("~", 1.5, 0.15))
	})

	It("conserves the extended energy", func() {
		params := md.DefaultParams()
		params.Dt = 0.002
		params.TargetTemperature = 1.2
		s := latticeFluid(3, 0.5, params)
		Expect(thermostat.InitVelocities(s, 1.2, rand.New(rand.NewSource(4)))).To(Succeed())

		nh, err := thermostat.NewNoseHoover(s, thermostat.MassFor(s, 0.5))
		Expect(err).NotTo(HaveOccurred())
		integ := newIntegrator(s)
		e0 := s.ConservedEnergy()

		for i := 0; i < 2000; i++ {
			integ.Step(s, nh)
		}
		Expect(s.ConservedEnergy()).To(BeNumerically("~", e0, 0.01*math.Max(1, math.Abs(e0))))
	})
})

var _ = Describe("Andersen", func() {
	It("collides with the expected frequency", func() {
		params := md.DefaultParams()
		params.Dt = 0.01
		s := latticeFluid(5, 0.5, params)
		a, err := thermostat.NewAndersen(s, 5, rand.New(rand.NewSource(8)))
		Expect(err).NotTo(HaveOccurred())

		const steps = 200
		for i := 0; i < steps; i++ {
			a.PostStep(s)
		}
		want := a.Probability(params.Dt) * float64(s.Len()*steps)
		Expect(float64(a.Collisions)).To(BeNumerically("~", want, 0.1*want))
	})

	It("counts every degree of freedom", func() {
		params := md.DefaultParams()
		params.RemoveCOM = true
		s := latticeFluid(2, 0.5, params)
		Expect(s.DegreesOfFreedom()).To(Equal(21))

		_, err := thermostat.NewAndersen(s, 5, rand.New(rand.NewSource(8)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.DegreesOfFreedom()).To(Equal(24))
	})

	It("leaves the state untouched when rejected", func() {
		params := md.DefaultParams()
		s := latticeFluid(2, 0.5, params)
		_, err := thermostat.NewAndersen(s, 0, rand.New(rand.NewSource(8)))
		Expect(err).To(MatchError(md.ErrConfiguration))
		Expect(s.Params.RemoveCOM).To(BeTrue())
	})
})

var _ = Describe("Barostats", func() {
	compressed := func() *md.State {
		params := md.DefaultParams()
		params.TargetPressure = 0.5
		s := latticeFluid(4, 0.9, params)
		Expect(thermostat.InitVelocities(s, 1, rand.New(rand.NewSource(13)))).To(Succeed())
		return s
	}

	It("berendsen expands a box above the target pressure", func() {
		s := compressed()
		integ := newIntegrator(s)
		Expect(s.Pressure()).To(BeNumerically(">", s.Params.TargetPressure))

		bb, err := thermostat.NewBerendsenBarostat(s, 1, 0.5)
		Expect(err).NotTo(HaveOccurred())
		v0 := s.Volume()
		for i := 0; i < 50; i++ {
			integ.Step(s, bb)
		}
		Expect(s.Volume()).To(BeNumerically(">", v0))
		for _, p := range s.Particles() {
			Expect(s.Box.Contains(p.Position)).To(BeTrue())
		}
	})

	It("berendsen clamps the scale factor", func() {
		bb := &thermostat.BerendsenBarostat{Tau: 1e-6, Compressibility: 1}
		Expect(bb.Mu(1e6, 0, 1)).To(BeNumerically("~", math.Cbrt(1.5), 1e-15))
		Expect(bb.Mu(-1e6, 0, 1)).To(BeNumerically("~", math.Cbrt(0.5), 1e-15))
	})

	It("nose-hoover expands a box above the target pressure", func() {
		s := compressed()
		integ := newIntegrator(s)

		nb, err := thermostat.NewNoseHooverBarostat(s, 500)
		Expect(err).NotTo(HaveOccurred())
		v0 := s.Volume()
		for i := 0; i < 50; i++ {
			integ.Step(s, nb)
		}
		Expect(s.Barostat.Velocity).To(BeNumerically(">", 0))
		Expect(s.Volume()).To(BeNumerically(">", v0))
		Expect(math.Log(s.Volume()/v0)).To(BeNumerically("~", 3*s.Barostat.Position, 1e-9))
		for _, p := range s.Particles() {
			Expect(s.Box.Contains(p.Position)).To(BeTrue())
		}
	})

	It("composes with a thermostat", func() {
		s := compressed()
		integ := newIntegrator(s)
		nh, err := thermostat.NewNoseHoover(s, thermostat.MassFor(s, 0.5))
		Expect(err).NotTo(HaveOccurred())
		nb, err := thermostat.NewNoseHooverBarostat(s, 500)
		Expect(err).NotTo(HaveOccurred())

		chain := integrators.Chain{nh, nb}
		for i := 0; i < 200; i++ {
			integ.Step(s, chain)
		}
		_, ok := s.Finite()
		Expect(ok).To(BeTrue())
	})
})
