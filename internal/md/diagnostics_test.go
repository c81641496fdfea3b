package md

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/vec"
)

func twoParticles(t *testing.T, removeCOM bool) *State {
	t.Helper()
	params := DefaultParams()
	params.RemoveCOM = removeCOM
	c := Collection{Particles: []Particle{
		{Position: vec.Vec3{1, 1, 1}, Velocity: vec.Vec3{1, 0, 0}, Mass: 2},
		{Position: vec.Vec3{3, 1, 1}, Velocity: vec.Vec3{-1, 0, 0}, Mass: 2},
	}}
	s, err := NewCollectionState(vec.Cube(10), argon, c, params)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestKineticEnergyAndTemperature(t *testing.T) {
	tests := []struct {
		name      string
		removeCOM bool
		wantNdf   int
	}{
		{"com removed", true, 3},
		{"com free", false, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoParticles(t, tt.removeCOM)
			if ke := s.KineticEnergy(); ke != 2 {
				t.Errorf("KE = %v, want 2", ke)
			}
			if ndf := s.DegreesOfFreedom(); ndf != tt.wantNdf {
				t.Errorf("ndf = %d, want %d", ndf, tt.wantNdf)
			}
			want := 2 * 2 / float64(tt.wantNdf)
			if temp := s.Temperature(); math.Abs(temp-want) > 1e-12 {
				t.Errorf("T = %v, want %v", temp, want)
			}
		})
	}
}

func TestSingleParticleKeepsAllDegreesOfFreedom(t *testing.T) {
	s, err := NewCollectionState(vec.Cube(5), argon, Collection{Particles: []Particle{{Mass: 1}}}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if s.DegreesOfFreedom() != 3 {
		t.Errorf("ndf = %d, want 3", s.DegreesOfFreedom())
	}
	if s.Temperature() != 0 {
		t.Errorf("T = %v, want 0 at rest", s.Temperature())
	}
}

func TestMomentumAndDrift(t *testing.T) {
	s := twoParticles(t, true)
	if p := s.Momentum(); p.Len() > 1e-12 {
		t.Errorf("momentum = %v, want zero", p)
	}

	s.Particles()[0].Velocity = vec.Vec3{3, 1, 0}
	s.RemoveDrift()
	if p := s.Momentum(); p.Len() > 1e-12 {
		t.Errorf("momentum after RemoveDrift = %v", p)
	}
}

func TestPressure(t *testing.T) {
	s := twoParticles(t, false)
	s.Virial = 3
	want := (2*2 + 3) / (3 * 1000.0)
	if got := s.Pressure(); math.Abs(got-want) > 1e-15 {
		t.Errorf("P = %v, want %v", got, want)
	}
}

func TestCopiesAreDetached(t *testing.T) {
	s := twoParticles(t, true)
	pos := s.Positions()
	pos[0] = vec.Vec3{}
	vel := s.Velocities()
	vel[0] = vec.Vec3{}

	if s.Particles()[0].Position == (vec.Vec3{}) || s.Particles()[0].Velocity == (vec.Vec3{}) {
		t.Error("query results alias state storage")
	}
}

func TestExtendedEnergy(t *testing.T) {
	s := twoParticles(t, true)
	if s.ExtendedEnergy() != 0 {
		t.Errorf("extended energy without couplers = %v", s.ExtendedEnergy())
	}

	s.Thermostat = ExtendedVar{Position: 0.5, Velocity: 2, Mass: 1}
	want := 0.5*1*4 + 3*1*1*0.5
	if got := s.ExtendedEnergy(); math.Abs(got-want) > 1e-12 {
		t.Errorf("extended energy = %v, want %v", got, want)
	}
}

func TestFinite(t *testing.T) {
	s := twoParticles(t, true)
	if _, ok := s.Finite(); !ok {
		t.Fatal("fresh state reported non-finite")
	}
	s.Particles()[1].Velocity[2] = math.Inf(1)
	if i, ok := s.Finite(); ok || i != 1 {
		t.Errorf("Finite() = (%d, %v), want (1, false)", i, ok)
	}
}
