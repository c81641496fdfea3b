package md

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/vec"
)

// Kind tags the shape held by a State.
type Kind int

const (
	KindCollection Kind = iota
	KindMolecular
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindMolecular:
		return "molecular"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Params are the global scalar parameters of a run.
type Params struct {
	Dt                float64
	Boltzmann         float64
	TargetTemperature float64
	TargetPressure    float64
	// RemoveCOM marks the centre-of-mass velocity as constrained, which
	// removes three degrees of freedom from the temperature.
	RemoveCOM bool
}

// DefaultParams uses reduced units with kB = 1.
func DefaultParams() Params {
	return Params{
		Dt:                0.005,
		Boltzmann:         1.0,
		TargetTemperature: 1.0,
		TargetPressure:    1.0,
		RemoveCOM:         true,
	}
}

func (p Params) Validate() error {
	if err := RequirePositive("dt", p.Dt); err != nil {
		return err
	}
	if err := RequirePositive("boltzmann", p.Boltzmann); err != nil {
		return err
	}
	if err := RequireNonNegative("target temperature", p.TargetTemperature); err != nil {
		return err
	}
	if math.IsNaN(p.TargetPressure) || math.IsInf(p.TargetPressure, 0) {
		return Invalid("target pressure", p.TargetPressure, "must be finite")
	}
	return nil
}

// ExtendedVar is one extended-system degree of freedom: a Nose-Hoover
// friction or a barostat strain. Position is the time integral of Velocity.
type ExtendedVar struct {
	Position float64
	Velocity float64
	Mass     float64
}

func (x ExtendedVar) KineticEnergy() float64 {
	return 0.5 * x.Mass * x.Velocity * x.Velocity
}

// State is the complete mutable state of a run.
type State struct {
	Box    vec.Box
	Params Params
	Types  []LJType

	Step int
	Time float64

	// Potential and Virial come from the most recent force evaluation.
	Potential float64
	Virial    float64

	Thermostat ExtendedVar
	Barostat   ExtendedVar

	Degeneracies Degeneracies

	kind      Kind
	particles []Particle
	molecules []Molecule
	bonds     []Bond
}

// NewCollectionState builds a bond-free state. Particles are copied and their
// positions wrapped into the box.
func NewCollectionState(box vec.Box, types []LJType, c Collection, params Params) (*State, error) {
	s := &State{kind: KindCollection}
	if err := s.init(box, types, params); err != nil {
		return nil, err
	}
	if len(c.Particles) == 0 {
		return nil, Invalid("particles", 0, "at least one particle is required")
	}
	s.particles = make([]Particle, len(c.Particles))
	copy(s.particles, c.Particles)
	if err := s.validateParticles(); err != nil {
		return nil, err
	}
	s.WrapPositions()
	return s, nil
}

// NewMolecularState builds a state from independent molecules. Each molecule
// keeps its own window of the shared particle storage; bonds never cross
// molecules.
func NewMolecularState(box vec.Box, types []LJType, molecules []Molecule, params Params) (*State, error) {
	s := &State{kind: KindMolecular}
	if err := s.init(box, types, params); err != nil {
		return nil, err
	}
	if len(molecules) == 0 {
		return nil, Invalid("molecules", 0, "at least one molecule is required")
	}

	total := 0
	for mi, m := range molecules {
		if len(m.Particles) == 0 {
			return nil, Invalid(fmt.Sprintf("molecule %d", mi), m.Name, "molecule has no particles")
		}
		for bi, b := range m.Bonds {
			if err := validateBond(b, len(m.Particles)); err != nil {
				return nil, fmt.Errorf("molecule %d bond %d: %w", mi, bi, err)
			}
		}
		total += len(m.Particles)
	}

	s.particles = make([]Particle, 0, total)
	s.molecules = make([]Molecule, len(molecules))
	for mi, m := range molecules {
		offset := len(s.particles)
		s.particles = append(s.particles, m.Particles...)
		s.molecules[mi] = Molecule{
			Name:      m.Name,
			Particles: s.particles[offset : offset+len(m.Particles) : offset+len(m.Particles)],
			Bonds:     append([]Bond(nil), m.Bonds...),
		}
		for _, b := range m.Bonds {
			s.bonds = append(s.bonds, Bond{I: b.I + offset, J: b.J + offset, R0: b.R0, K: b.K})
		}
	}

	if err := s.validateParticles(); err != nil {
		return nil, err
	}
	s.WrapPositions()
	return s, nil
}

func (s *State) init(box vec.Box, types []LJType, params Params) error {
	if err := box.Validate(); err != nil {
		return Invalid("box", box.Edges, err.Error())
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if len(types) == 0 {
		return Invalid("types", 0, "at least one LJ type is required")
	}
	for i, t := range types {
		if err := RequirePositive(fmt.Sprintf("types[%d].sigma", i), t.Sigma); err != nil {
			return err
		}
		if err := RequireNonNegative(fmt.Sprintf("types[%d].epsilon", i), t.Epsilon); err != nil {
			return err
		}
	}
	s.Box = box
	s.Params = params
	s.Types = append([]LJType(nil), types...)
	return nil
}

func (s *State) validateParticles() error {
	for i, p := range s.particles {
		if err := RequirePositive(fmt.Sprintf("particles[%d].mass", i), p.Mass); err != nil {
			return err
		}
		if p.Type < 0 || p.Type >= len(s.Types) {
			return Invalid(fmt.Sprintf("particles[%d].type", i), p.Type, "no such LJ type")
		}
		for axis := 0; axis < 3; axis++ {
			if !finite(p.Position[axis]) || !finite(p.Velocity[axis]) {
				return Invalid(fmt.Sprintf("particles[%d]", i), p.Position, "position and velocity must be finite")
			}
		}
	}
	return nil
}

func validateBond(b Bond, n int) error {
	if b.I < 0 || b.I >= n {
		return Invalid("bond index", b.I, fmt.Sprintf("molecule has %d particles", n))
	}
	if b.J < 0 || b.J >= n {
		return Invalid("bond index", b.J, fmt.Sprintf("molecule has %d particles", n))
	}
	if b.I == b.J {
		return Invalid("bond", b.I, "a particle cannot be bonded to itself")
	}
	if err := RequirePositive("bond r0", b.R0); err != nil {
		return err
	}
	return RequireNonNegative("bond k", b.K)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (s *State) Kind() Kind { return s.kind }

// Len is the number of particles. It never changes after construction.
func (s *State) Len() int { return len(s.particles) }

// Particles returns the live particle storage.
func (s *State) Particles() []Particle { return s.particles }

// Molecules returns the molecule views, nil for a collection.
func (s *State) Molecules() []Molecule { return s.molecules }

// Bonds returns every bond with indices into Particles.
func (s *State) Bonds() []Bond { return s.bonds }

// SetPosition stores p wrapped into the box.
func (s *State) SetPosition(i int, p vec.Vec3) {
	s.particles[i].Position = vec.Wrap(s.Box, p)
}

// WrapPositions wraps every particle into the box.
func (s *State) WrapPositions() {
	for i := range s.particles {
		s.particles[i].Position = vec.Wrap(s.Box, s.particles[i].Position)
	}
}

// ScaleVelocities multiplies every velocity by f.
func (s *State) ScaleVelocities(f float64) {
	for i := range s.particles {
		s.particles[i].Velocity = s.particles[i].Velocity.Mul(f)
	}
}

// Clone returns a deep copy. Molecule views of the copy point into the
// copy's own storage.
func (s *State) Clone() *State {
	c := *s
	c.Types = append([]LJType(nil), s.Types...)
	c.particles = append([]Particle(nil), s.particles...)
	c.bonds = append([]Bond(nil), s.bonds...)
	if s.molecules != nil {
		c.molecules = make([]Molecule, len(s.molecules))
		offset := 0
		for i, m := range s.molecules {
			n := len(m.Particles)
			c.molecules[i] = Molecule{
				Name:      m.Name,
				Particles: c.particles[offset : offset+n : offset+n],
				Bonds:     append([]Bond(nil), m.Bonds...),
			}
			offset += n
		}
	}
	return &c
}
