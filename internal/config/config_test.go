package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/md"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, KindLattice, cfg.System.Kind)
	assert.Greater(t, cfg.Integrator.Dt, 0.0)
	assert.True(t, cfg.ForceField.BondMinimumImage)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Integrator.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Integrator.Steps = 0 }},
		{"negative sample interval", func(c *Config) { c.Integrator.SampleEvery = -1 }},
		{"no types", func(c *Config) { c.Types = nil }},
		{"unknown kind", func(c *Config) { c.System.Kind = "crystal" }},
		{"no particles", func(c *Config) { c.System.Particles = 0 }},
		{"no density or box", func(c *Config) { c.System.Density = 0 }},
		{"two box edges", func(c *Config) { c.System.Box = []float64{1, 2} }},
		{"unknown thermostat", func(c *Config) { c.Thermostat.Kind = "langevin" }},
		{"unknown barostat", func(c *Config) { c.Barostat.Kind = "parrinello" }},
		{"negative temperature", func(c *Config) { c.Thermostat.Temperature = -1 }},
		{"zero min distance", func(c *Config) { c.ForceField.MinDistance = 0 }},
		{"zero boltzmann", func(c *Config) { c.Boltzmann = 0 }},
		{"zero type mass", func(c *Config) { c.Types[0].Mass = 0 }},
		{"negative type mass", func(c *Config) { c.Types[0].Mass = -2 }},
		{"negative atom mass", func(c *Config) {
			c.System.Kind = KindMolecules
			c.System.Molecules = 1
			c.System.Atoms = []AtomConfig{{Mass: -1}}
		}},
		{"atom with unknown type", func(c *Config) {
			c.System.Kind = KindMolecules
			c.System.Molecules = 1
			c.System.Atoms = []AtomConfig{{Type: 3}}
		}},
		{"unknown molecule", func(c *Config) {
			c.System.Kind = KindMolecules
			c.System.Molecules = 2
			c.System.Molecule = "benzene"
		}},
		{"molecules without template", func(c *Config) {
			c.System.Kind = KindMolecules
			c.System.Molecules = 2
		}},
		{"minimize without iterations", func(c *Config) {
			c.Minimize.Enabled = true
			c.Minimize.MaxIterations = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), md.ErrConfiguration)
		})
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("lj_fluid", "npt")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	cfg := GetPreset("h2_gas", "berendsen")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.System.Molecule, loaded.System.Molecule)
	assert.Equal(t, cfg.System.Molecules, loaded.System.Molecules)
	assert.Equal(t, cfg.Thermostat, loaded.Thermostat)
	assert.Equal(t, cfg.Integrator, loaded.Integrator)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: small\nsystem:\n  kind: lattice\n  particles: 8\n  density: 0.5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", cfg.Name)
	assert.Equal(t, 8, cfg.System.Particles)
	assert.Equal(t, DefaultDt, cfg.Integrator.Dt)
	assert.True(t, cfg.ForceField.BondMinimumImage)
}

func TestBuildRejectsMasslessType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types[0].Mass = 0

	s, err := Build(cfg)
	assert.ErrorIs(t, err, md.ErrConfiguration)
	assert.Nil(t, s)

	var cerr *md.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "types[0].mass", cerr.Field)
}

func TestBuildAtomMassFallsBackToType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types[0].Mass = 2.5
	cfg.System = SystemConfig{
		Kind:      KindMolecules,
		Molecules: 1,
		Box:       []float64{8},
		Atoms: []AtomConfig{
			{Position: [3]float64{0, 0, 0}},
			{Position: [3]float64{1.5, 0, 0}, Mass: 4},
		},
	}

	s, err := Build(cfg)
	require.NoError(t, err)
	ps := s.Particles()
	assert.Equal(t, 2.5, ps[0].Mass)
	assert.Equal(t, 4.0, ps[1].Mass)
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluid.toml")
	body := `
name = "toml_fluid"
seed = 7

[system]
kind = "lattice"
particles = 27
density = 0.6
temperature = 1.0

[thermostat]
kind = "nose-hoover"
temperature = 1.0
tau = 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toml_fluid", cfg.Name)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "nose-hoover", cfg.Thermostat.Kind)
	assert.Equal(t, 0.5, cfg.Thermostat.Tau)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("integrator:\n  dt: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, md.ErrConfiguration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lj_fluid", "berendsen")
	require.NotNil(t, cfg)
	assert.Equal(t, "berendsen", cfg.Thermostat.Kind)

	cfg.Types[0].Sigma = 42
	again := GetPreset("lj_fluid", "berendsen")
	assert.Equal(t, 1.0, again.Types[0].Sigma, "presets must be returned as copies")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("lj_fluid", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "nve"))
}

func TestListPresets(t *testing.T) {
	assert.Contains(t, ListPresets("lj_fluid"), "nose_hoover")
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Equal(t, []string{"h2_gas", "lj_dimer", "lj_fluid"}, ListSystems())
}

func TestAllPresetsBuild(t *testing.T) {
	for _, system := range ListSystems() {
		for _, name := range ListPresets(system) {
			t.Run(system+"/"+name, func(t *testing.T) {
				cfg := GetPreset(system, name)
				s, err := Build(cfg)
				require.NoError(t, err)
				assert.Greater(t, s.Len(), 0)
				for _, p := range s.Particles() {
					assert.True(t, s.Box.Contains(p.Position))
				}
			})
		}
	}
}

func TestBuildLattice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.System.Particles = 64
	cfg.System.Density = 0.5
	cfg.System.Temperature = 1.5

	s, err := Build(cfg)
	require.NoError(t, err)

	assert.Equal(t, md.KindCollection, s.Kind())
	assert.Equal(t, 64, s.Len())
	assert.InDelta(t, 0.5, s.Density(), 1e-12)
	assert.Less(t, s.Momentum().Len(), 1e-10)
	assert.InDelta(t, 1.5, s.Temperature(), 0.5)

	again, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, s.Velocities(), again.Velocities(), "same seed must give same velocities")
}

func TestBuildMolecules(t *testing.T) {
	cfg := GetPreset("h2_gas", "nve")
	s, err := Build(cfg)
	require.NoError(t, err)

	assert.Equal(t, md.KindMolecular, s.Kind())
	assert.Len(t, s.Molecules(), 27)
	assert.Len(t, s.Bonds(), 27)
	for _, m := range s.Molecules() {
		d := m.Particles[1].Position.Sub(m.Particles[0].Position)
		assert.InDelta(t, md.H2BondLength+0.05, d.Len(), 1e-9)
	}
}

func TestBuildInlineDimer(t *testing.T) {
	cfg := GetPreset("lj_dimer", "bound")
	s, err := Build(cfg)
	require.NoError(t, err)

	ps := s.Particles()
	require.Len(t, ps, 2)
	assert.InDelta(t, 1.2, ps[1].Position.Sub(ps[0].Position).Len(), 1e-12)
	assert.Zero(t, s.KineticEnergy())
	assert.False(t, math.IsNaN(s.Box.Volume()))
}
