package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mdsim/internal/md"
)

// Degeneracies counts numerical degeneracies recorded since the first
// observation.
type Degeneracies struct {
	name  string
	first int
	last  int
	seen  bool
}

func NewDegeneracies() *Degeneracies {
	return &Degeneracies{name: "degeneracies"}
}

func (d *Degeneracies) Name() string { return d.name }

func (d *Degeneracies) Observe(s *md.State) {
	total := s.Degeneracies.Total()
	if !d.seen {
		d.first = total
		d.seen = true
	}
	d.last = total
}

func (d *Degeneracies) Value() float64 { return float64(d.last - d.first) }

func (d *Degeneracies) Reset() { *d = Degeneracies{name: d.name} }

// MaxForce reports the largest force magnitude seen on any particle.
type MaxForce struct {
	name string
	max  float64
	mags []float64
}

func NewMaxForce() *MaxForce {
	return &MaxForce{name: "max_force"}
}

func (m *MaxForce) Name() string { return m.name }

func (m *MaxForce) Observe(s *md.State) {
	ps := s.Particles()
	if cap(m.mags) < len(ps) {
		m.mags = make([]float64, len(ps))
	}
	m.mags = m.mags[:len(ps)]
	for i, p := range ps {
		m.mags[i] = p.Force.Len()
	}
	if len(m.mags) == 0 {
		return
	}
	if v := floats.Max(m.mags); v > m.max {
		m.max = v
	}
}

func (m *MaxForce) Value() float64 { return m.max }

func (m *MaxForce) Reset() { m.max = 0 }
