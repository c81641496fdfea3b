package config

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/thermostat"
	"github.com/san-kum/mdsim/internal/vec"
)

// Build places particles or molecules in the box and draws Maxwell-Boltzmann
// velocities at System.Temperature from rand.NewSource(Seed).
func Build(cfg *Config) (*md.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return BuildWithRand(cfg, rng)
}

// BuildWithRand is Build with a caller-supplied random source.
func BuildWithRand(cfg *Config, rng *rand.Rand) (*md.State, error) {
	types := cfg.LJTypes()
	params := cfg.Params()

	var (
		s   *md.State
		err error
	)
	switch cfg.System.Kind {
	case KindLattice:
		s, err = buildLattice(cfg, types, params)
	case KindMolecules:
		s, err = buildMolecules(cfg, types, params)
	default:
		return nil, md.Invalid("system.kind", cfg.System.Kind, "must be lattice or molecules")
	}
	if err != nil {
		return nil, err
	}

	if cfg.System.Temperature > 0 {
		if err := thermostat.InitVelocities(s, cfg.System.Temperature, rng); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func box(cfg *Config, n int) (vec.Box, error) {
	switch len(cfg.System.Box) {
	case 1:
		return vec.NewBox(cfg.System.Box[0], cfg.System.Box[0], cfg.System.Box[0])
	case 3:
		return vec.NewBox(cfg.System.Box[0], cfg.System.Box[1], cfg.System.Box[2])
	default:
		edge := math.Cbrt(float64(n) / cfg.System.Density)
		return vec.NewBox(edge, edge, edge)
	}
}

// latticeSites returns the first n sites of the smallest simple cubic
// lattice with at least n sites, scaled to b.
func latticeSites(b vec.Box, n int) []vec.Vec3 {
	side := int(math.Ceil(math.Cbrt(float64(n)) - 1e-9))
	if side < 1 {
		side = 1
	}
	sites := make([]vec.Vec3, 0, n)
	for i := 0; i < side && len(sites) < n; i++ {
		for j := 0; j < side && len(sites) < n; j++ {
			for k := 0; k < side && len(sites) < n; k++ {
				sites = append(sites, vec.Vec3{
					(float64(i) + 0.5) * b.Edges[0] / float64(side),
					(float64(j) + 0.5) * b.Edges[1] / float64(side),
					(float64(k) + 0.5) * b.Edges[2] / float64(side),
				})
			}
		}
	}
	return sites
}

func buildLattice(cfg *Config, types []md.LJType, params md.Params) (*md.State, error) {
	n := cfg.System.Particles
	b, err := box(cfg, n)
	if err != nil {
		return nil, md.Invalid("system.box", cfg.System.Box, err.Error())
	}

	sites := latticeSites(b, n)
	ps := make([]md.Particle, n)
	for i := range ps {
		t := i % len(types)
		ps[i] = md.Particle{Position: sites[i], Mass: types[t].Mass, Type: t}
	}
	return md.NewCollectionState(b, types, md.Collection{Particles: ps}, params)
}

func moleculeTemplate(cfg *Config) md.Molecule {
	if cfg.System.Molecule != "" {
		m, _ := md.Template(cfg.System.Molecule)
		return m
	}
	m := md.Molecule{Name: cfg.Name}
	for _, a := range cfg.System.Atoms {
		mass := a.Mass
		if mass == 0 && a.Type >= 0 && a.Type < len(cfg.Types) {
			mass = cfg.Types[a.Type].Mass
		}
		m.Particles = append(m.Particles, md.Particle{
			Position: vec.Vec3(a.Position),
			Velocity: vec.Vec3(a.Velocity),
			Mass:     mass,
			Type:     a.Type,
		})
	}
	for _, bc := range cfg.System.Bonds {
		m.Bonds = append(m.Bonds, md.Bond{I: bc.I, J: bc.J, R0: bc.R0, K: bc.K})
	}
	return m
}

func buildMolecules(cfg *Config, types []md.LJType, params md.Params) (*md.State, error) {
	tmpl := moleculeTemplate(cfg)
	if len(tmpl.Particles) == 0 {
		return nil, md.Invalid("system.atoms", 0, "molecule has no particles")
	}
	count := cfg.System.Molecules

	b, err := box(cfg, count*len(tmpl.Particles))
	if err != nil {
		return nil, md.Invalid("system.box", cfg.System.Box, err.Error())
	}

	centre := tmpl.Centroid()
	sites := latticeSites(b, count)
	mols := md.Replicate(tmpl, count, func(i int) vec.Vec3 {
		return sites[i].Sub(centre)
	})

	s, err := md.NewMolecularState(b, types, mols, params)
	if err != nil {
		return nil, fmt.Errorf("molecule %q: %w", tmpl.Name, err)
	}
	return s, nil
}
