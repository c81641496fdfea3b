package forcefield

import (
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

const DefaultMinDistance = 1e-3

type Options struct {
	// MinDistance is the separation floor used by the pair clamp.
	MinDistance float64
	// Cutoff truncates and shifts the LJ potential. Zero includes every pair.
	Cutoff float64
	// BondMinimumImage measures bond vectors with the minimum image.
	BondMinimumImage bool
	Workers          int
}

func DefaultOptions() Options {
	return Options{
		MinDistance:      DefaultMinDistance,
		BondMinimumImage: true,
		Workers:          1,
	}
}

// Result breaks down one force evaluation.
type Result struct {
	Potential       float64
	Nonbonded       float64
	Bonded          float64
	Virial          float64
	Clamped         int
	ZeroLengthBonds int
	// CutoffViolation is set when the box has shrunk below twice the cutoff.
	CutoffViolation bool
}

type ForceField struct {
	opts    Options
	ntypes  int
	table   []pairParams
	cutoff2 float64
	// excluded holds i*n+j for every bonded pair with i < j.
	excluded map[int]struct{}
	n        int

	buffers [][]vec.Vec3
}

// New validates opts against s and precomputes the pair table and the
// exclusion set. The particle count and type table of s must not change
// afterwards.
func New(s *md.State, opts Options) (*ForceField, error) {
	if err := md.RequirePositive("min distance", opts.MinDistance); err != nil {
		return nil, err
	}
	if err := md.RequireNonNegative("cutoff", opts.Cutoff); err != nil {
		return nil, err
	}
	if opts.Cutoff > 0 && opts.Cutoff > 0.5*s.Box.MinEdge() {
		return nil, md.Invalid("cutoff", opts.Cutoff, "must not exceed half the shortest box edge")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	ff := &ForceField{
		opts:    opts,
		ntypes:  len(s.Types),
		cutoff2: opts.Cutoff * opts.Cutoff,
		n:       s.Len(),
	}

	ff.table = make([]pairParams, ff.ntypes*ff.ntypes)
	for a, ta := range s.Types {
		for b, tb := range s.Types {
			p := pairParams{sigma: ta.Sigma, epsilon: ta.Epsilon}
			if a != b {
				p.sigma, p.epsilon = Mix(ta.Sigma, ta.Epsilon, tb.Sigma, tb.Epsilon)
			}
			if opts.Cutoff > 0 {
				p.shift, _ = LJ(p.sigma, p.epsilon, opts.Cutoff)
			}
			ff.table[a*ff.ntypes+b] = p
		}
	}

	if s.Kind() == md.KindMolecular {
		ff.excluded = make(map[int]struct{}, len(s.Bonds()))
		for _, b := range s.Bonds() {
			i, j := b.I, b.J
			if i > j {
				i, j = j, i
			}
			ff.excluded[i*ff.n+j] = struct{}{}
		}
	}

	return ff, nil
}

func (ff *ForceField) Options() Options { return ff.opts }

// Excluded reports whether the pair i, j is skipped by the LJ loop.
func (ff *ForceField) Excluded(i, j int) bool {
	if len(ff.excluded) == 0 {
		return false
	}
	if i > j {
		i, j = j, i
	}
	_, ok := ff.excluded[i*ff.n+j]
	return ok
}

// Compute zeroes every force, accumulates LJ and bond contributions and
// stores the potential energy and virial on s.
func (ff *ForceField) Compute(s *md.State) Result {
	ps := s.Particles()
	for i := range ps {
		ps[i].Force = vec.Vec3{}
	}

	var res Result
	if ff.opts.Workers > 1 && len(ps) >= 2*ff.opts.Workers {
		res = ff.nonbondedParallel(s)
	} else {
		var acc accumulator
		ff.pairRows(s, 0, len(ps), func(i int, f vec.Vec3) {
			ps[i].Force = ps[i].Force.Add(f)
		}, &acc)
		res = Result{Nonbonded: acc.energy, Virial: acc.virial, Clamped: acc.clamped}
	}

	ff.bonds(s, &res)
	res.CutoffViolation = ff.opts.Cutoff > 0.5*s.Box.MinEdge()

	res.Potential = res.Nonbonded + res.Bonded
	s.Potential = res.Potential
	s.Virial = res.Virial
	s.Degeneracies.ClampedPairs += res.Clamped
	s.Degeneracies.ZeroLengthBonds += res.ZeroLengthBonds
	if res.CutoffViolation {
		s.Degeneracies.CutoffViolations++
	}
	return res
}

type accumulator struct {
	energy  float64
	virial  float64
	clamped int
}

// pairRows evaluates every non-excluded pair (i, j) with start <= i < end
// and i < j. add receives each force contribution.
func (ff *ForceField) pairRows(s *md.State, start, end int, add func(i int, f vec.Vec3), acc *accumulator) {
	ps := s.Particles()
	n := len(ps)
	rmin := ff.opts.MinDistance

	for i := start; i < end; i++ {
		pi := ps[i]
		row := pi.Type * ff.ntypes
		for j := i + 1; j < n; j++ {
			if ff.excluded != nil {
				if _, ok := ff.excluded[i*ff.n+j]; ok {
					continue
				}
			}
			pj := ps[j]
			d := vec.MinimumImage(s.Box, pi.Position.Sub(pj.Position))
			r2 := d.Dot(d)
			if ff.cutoff2 > 0 && r2 > ff.cutoff2 {
				continue
			}
			p := ff.table[row+pj.Type]
			r := d.Len()

			if r < rmin {
				acc.clamped++
				u, fmag := p.eval(rmin)
				acc.energy += u
				if r == 0 {
					continue
				}
				f := d.Mul(fmag / r)
				add(i, f)
				add(j, f.Mul(-1))
				acc.virial += fmag * r
				continue
			}

			u, fmag := p.eval(r)
			acc.energy += u
			f := d.Mul(fmag / r)
			add(i, f)
			add(j, f.Mul(-1))
			acc.virial += fmag * r
		}
	}
}

func (ff *ForceField) bonds(s *md.State, res *Result) {
	ps := s.Particles()
	for _, b := range s.Bonds() {
		d := ps[b.I].Position.Sub(ps[b.J].Position)
		if ff.opts.BondMinimumImage {
			d = vec.MinimumImage(s.Box, d)
		}
		r := d.Len()
		dr := r - b.R0
		res.Bonded += 0.5 * b.K * dr * dr
		if r == 0 {
			res.ZeroLengthBonds++
			continue
		}
		f := d.Mul(-b.K * dr / r)
		ps[b.I].Force = ps[b.I].Force.Add(f)
		ps[b.J].Force = ps[b.J].Force.Sub(f)
		res.Virial += -b.K * dr * r
	}
}
