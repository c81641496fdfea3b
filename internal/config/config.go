package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/md"
)

const (
	DefaultDt          = 0.005
	DefaultSteps       = 2000
	DefaultSampleEvery = 10
	DefaultParticles   = 125
	DefaultDensity     = 0.8
	DefaultTemperature = 1.0
	DefaultMinDistance = 1e-3
)

const (
	KindLattice   = "lattice"
	KindMolecules = "molecules"
)

type Config struct {
	Name      string  `yaml:"name" toml:"name"`
	Seed      int64   `yaml:"seed" toml:"seed"`
	Boltzmann float64 `yaml:"boltzmann" toml:"boltzmann"`
	RemoveCOM bool    `yaml:"remove_com" toml:"remove_com"`

	System     SystemConfig     `yaml:"system" toml:"system"`
	Types      []TypeConfig     `yaml:"types" toml:"types"`
	Integrator IntegratorConfig `yaml:"integrator" toml:"integrator"`
	Thermostat ThermostatConfig `yaml:"thermostat" toml:"thermostat"`
	Barostat   BarostatConfig   `yaml:"barostat" toml:"barostat"`
	ForceField ForceFieldConfig `yaml:"force_field" toml:"force_field"`
	Minimize   MinimizeConfig   `yaml:"minimize" toml:"minimize"`
}

type SystemConfig struct {
	Kind string `yaml:"kind" toml:"kind"`
	// Particles is the lattice particle count.
	Particles int `yaml:"particles,omitempty" toml:"particles,omitempty"`
	// Molecule names a template; Atoms and Bonds define one inline instead.
	Molecule  string       `yaml:"molecule,omitempty" toml:"molecule,omitempty"`
	Atoms     []AtomConfig `yaml:"atoms,omitempty" toml:"atoms,omitempty"`
	Bonds     []BondConfig `yaml:"bonds,omitempty" toml:"bonds,omitempty"`
	Molecules int          `yaml:"molecules,omitempty" toml:"molecules,omitempty"`
	// Box holds one (cubic) or three edges. When empty the edge follows
	// from Density.
	Box         []float64 `yaml:"box,omitempty" toml:"box,omitempty"`
	Density     float64   `yaml:"density,omitempty" toml:"density,omitempty"`
	Temperature float64   `yaml:"temperature" toml:"temperature"`
}

type AtomConfig struct {
	Type     int        `yaml:"type" toml:"type"`
	Position [3]float64 `yaml:"position" toml:"position"`
	Velocity [3]float64 `yaml:"velocity,omitempty" toml:"velocity,omitempty"`
	Mass     float64    `yaml:"mass,omitempty" toml:"mass,omitempty"`
}

type BondConfig struct {
	I  int     `yaml:"i" toml:"i"`
	J  int     `yaml:"j" toml:"j"`
	R0 float64 `yaml:"r0" toml:"r0"`
	K  float64 `yaml:"k" toml:"k"`
}

type TypeConfig struct {
	Name    string  `yaml:"name" toml:"name"`
	Sigma   float64 `yaml:"sigma" toml:"sigma"`
	Epsilon float64 `yaml:"epsilon" toml:"epsilon"`
	Mass    float64 `yaml:"mass" toml:"mass"`
}

type IntegratorConfig struct {
	Dt          float64 `yaml:"dt" toml:"dt"`
	Steps       int     `yaml:"steps" toml:"steps"`
	SampleEvery int     `yaml:"sample_every" toml:"sample_every"`
}

type ThermostatConfig struct {
	Kind               string  `yaml:"kind" toml:"kind"`
	Temperature        float64 `yaml:"temperature" toml:"temperature"`
	Tau                float64 `yaml:"tau,omitempty" toml:"tau,omitempty"`
	Q                  float64 `yaml:"q,omitempty" toml:"q,omitempty"`
	CollisionFrequency float64 `yaml:"collision_frequency,omitempty" toml:"collision_frequency,omitempty"`
}

type BarostatConfig struct {
	Kind            string  `yaml:"kind" toml:"kind"`
	Pressure        float64 `yaml:"pressure" toml:"pressure"`
	Tau             float64 `yaml:"tau,omitempty" toml:"tau,omitempty"`
	W               float64 `yaml:"w,omitempty" toml:"w,omitempty"`
	Compressibility float64 `yaml:"compressibility,omitempty" toml:"compressibility,omitempty"`
}

type ForceFieldConfig struct {
	MinDistance      float64 `yaml:"min_distance" toml:"min_distance"`
	Cutoff           float64 `yaml:"cutoff" toml:"cutoff"`
	BondMinimumImage bool    `yaml:"bond_minimum_image" toml:"bond_minimum_image"`
	Workers          int     `yaml:"workers" toml:"workers"`
}

type MinimizeConfig struct {
	Enabled        bool    `yaml:"enabled" toml:"enabled"`
	MaxIterations  int     `yaml:"max_iterations" toml:"max_iterations"`
	ForceTolerance float64 `yaml:"force_tolerance" toml:"force_tolerance"`
	Step           float64 `yaml:"step" toml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "lj_fluid",
		Seed:      1,
		Boltzmann: 1,
		RemoveCOM: true,
		System: SystemConfig{
			Kind:        KindLattice,
			Particles:   DefaultParticles,
			Density:     DefaultDensity,
			Temperature: DefaultTemperature,
		},
		Types: []TypeConfig{{Name: "LJ", Sigma: 1, Epsilon: 1, Mass: 1}},
		Integrator: IntegratorConfig{
			Dt:          DefaultDt,
			Steps:       DefaultSteps,
			SampleEvery: DefaultSampleEvery,
		},
		Thermostat: ThermostatConfig{Kind: "none", Temperature: DefaultTemperature},
		Barostat:   BarostatConfig{Kind: "none", Pressure: 1},
		ForceField: ForceFieldConfig{
			MinDistance:      DefaultMinDistance,
			BondMinimumImage: true,
			Workers:          1,
		},
		Minimize: MinimizeConfig{
			MaxIterations:  1000,
			ForceTolerance: 1e-3,
			Step:           0.01,
		},
	}
}

// Load reads a YAML config, or TOML when the file ends in .toml. Fields the
// file omits keep their DefaultConfig values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Types = append([]TypeConfig(nil), c.Types...)
	out.System.Atoms = append([]AtomConfig(nil), c.System.Atoms...)
	out.System.Bonds = append([]BondConfig(nil), c.System.Bonds...)
	out.System.Box = append([]float64(nil), c.System.Box...)
	return &out
}

// Params converts the global scalars to md.Params.
func (c *Config) Params() md.Params {
	return md.Params{
		Dt:                c.Integrator.Dt,
		Boltzmann:         c.Boltzmann,
		TargetTemperature: c.Thermostat.Temperature,
		TargetPressure:    c.Barostat.Pressure,
		RemoveCOM:         c.RemoveCOM,
	}
}

func (c *Config) LJTypes() []md.LJType {
	out := make([]md.LJType, len(c.Types))
	for i, t := range c.Types {
		out[i] = md.LJType{Name: t.Name, Sigma: t.Sigma, Epsilon: t.Epsilon, Mass: t.Mass}
	}
	return out
}

var (
	thermostatKinds = []string{"none", "berendsen", "nose-hoover", "andersen"}
	barostatKinds   = []string{"none", "berendsen", "nose-hoover"}
)

// Validate checks everything that can be checked without building the
// system. Physical constraints are enforced again by the constructors.
func (c *Config) Validate() error {
	if err := md.RequirePositive("integrator.dt", c.Integrator.Dt); err != nil {
		return err
	}
	if c.Integrator.Steps <= 0 {
		return md.Invalid("integrator.steps", c.Integrator.Steps, "must be positive")
	}
	if c.Integrator.SampleEvery < 0 {
		return md.Invalid("integrator.sample_every", c.Integrator.SampleEvery, "must not be negative")
	}
	if err := md.RequirePositive("boltzmann", c.Boltzmann); err != nil {
		return err
	}
	if len(c.Types) == 0 {
		return md.Invalid("types", 0, "at least one LJ type is required")
	}
	for i, t := range c.Types {
		if err := md.RequirePositive(fmt.Sprintf("types[%d].mass", i), t.Mass); err != nil {
			return err
		}
	}

	switch c.System.Kind {
	case KindLattice:
		if c.System.Particles <= 0 {
			return md.Invalid("system.particles", c.System.Particles, "must be positive")
		}
	case KindMolecules:
		if c.System.Molecules <= 0 {
			return md.Invalid("system.molecules", c.System.Molecules, "must be positive")
		}
		if c.System.Molecule == "" && len(c.System.Atoms) == 0 {
			return md.Invalid("system.molecule", "", "a template name or inline atoms are required")
		}
		// an atom without its own mass takes the mass of its type
		for i, a := range c.System.Atoms {
			if err := md.RequireNonNegative(fmt.Sprintf("system.atoms[%d].mass", i), a.Mass); err != nil {
				return err
			}
			if a.Type < 0 || a.Type >= len(c.Types) {
				return md.Invalid(fmt.Sprintf("system.atoms[%d].type", i), a.Type, "no such LJ type")
			}
		}
		if c.System.Molecule != "" {
			if _, ok := md.Template(c.System.Molecule); !ok {
				return md.Invalid("system.molecule", c.System.Molecule, "unknown template, have "+strings.Join(md.TemplateNames(), ", "))
			}
		}
	default:
		return md.Invalid("system.kind", c.System.Kind, "must be lattice or molecules")
	}

	switch len(c.System.Box) {
	case 0:
		if err := md.RequirePositive("system.density", c.System.Density); err != nil {
			return err
		}
	case 1, 3:
	default:
		return md.Invalid("system.box", c.System.Box, "needs one or three edges")
	}
	if err := md.RequireNonNegative("system.temperature", c.System.Temperature); err != nil {
		return err
	}

	if !oneOf(c.Thermostat.Kind, thermostatKinds) {
		return md.Invalid("thermostat.kind", c.Thermostat.Kind, "must be one of "+strings.Join(thermostatKinds, ", "))
	}
	if !oneOf(c.Barostat.Kind, barostatKinds) {
		return md.Invalid("barostat.kind", c.Barostat.Kind, "must be one of "+strings.Join(barostatKinds, ", "))
	}
	if err := md.RequireNonNegative("thermostat.temperature", c.Thermostat.Temperature); err != nil {
		return err
	}
	if err := md.RequirePositive("force_field.min_distance", c.ForceField.MinDistance); err != nil {
		return err
	}
	if c.Minimize.Enabled {
		if c.Minimize.MaxIterations <= 0 {
			return md.Invalid("minimize.max_iterations", c.Minimize.MaxIterations, "must be positive")
		}
		if err := md.RequirePositive("minimize.step", c.Minimize.Step); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
