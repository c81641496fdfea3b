package config

import "sort"

func ljFluid(name string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.System.Particles = 108
	cfg.System.Density = 0.8
	cfg.System.Temperature = 1.2
	cfg.Thermostat.Temperature = 1.2
	cfg.ForceField.Cutoff = 2.5
	cfg.Integrator.Steps = 5000
	cfg.Integrator.SampleEvery = 10
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"lj_dimer": {
		"bound": {
			Name: "lj_dimer", Seed: 1, Boltzmann: 1, RemoveCOM: true,
			System: SystemConfig{
				Kind: KindMolecules, Molecules: 1, Box: []float64{10},
				Atoms: []AtomConfig{{Position: [3]float64{-0.6, 0, 0}}, {Position: [3]float64{0.6, 0, 0}}},
			},
			Types:      []TypeConfig{{Name: "Ar", Sigma: 1, Epsilon: 1, Mass: 1}},
			Integrator: IntegratorConfig{Dt: 0.001, Steps: 5000, SampleEvery: 5},
			Thermostat: ThermostatConfig{Kind: "none"},
			Barostat:   BarostatConfig{Kind: "none"},
			ForceField: ForceFieldConfig{MinDistance: DefaultMinDistance, BondMinimumImage: true, Workers: 1},
		},
		"equilibrium": {
			Name: "lj_dimer", Seed: 1, Boltzmann: 1, RemoveCOM: true,
			System: SystemConfig{
				Kind: KindMolecules, Molecules: 1, Box: []float64{10},
				Atoms: []AtomConfig{{Position: [3]float64{-0.5612310241546865, 0, 0}}, {Position: [3]float64{0.5612310241546865, 0, 0}}},
			},
			Types:      []TypeConfig{{Name: "Ar", Sigma: 1, Epsilon: 1, Mass: 1}},
			Integrator: IntegratorConfig{Dt: 0.001, Steps: 5000, SampleEvery: 5},
			Thermostat: ThermostatConfig{Kind: "none"},
			Barostat:   BarostatConfig{Kind: "none"},
			ForceField: ForceFieldConfig{MinDistance: DefaultMinDistance, BondMinimumImage: true, Workers: 1},
		},
	},
	"lj_fluid": {
		"nve": ljFluid("lj_fluid", nil),
		"berendsen": ljFluid("lj_fluid", func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "berendsen", Temperature: 1.2, Tau: 0.1}
		}),
		"nose_hoover": ljFluid("lj_fluid", func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "nose-hoover", Temperature: 1.2, Tau: 0.5}
		}),
		"andersen": ljFluid("lj_fluid", func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "andersen", Temperature: 1.2, CollisionFrequency: 1}
		}),
		"npt": ljFluid("lj_fluid", func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "nose-hoover", Temperature: 1.2, Tau: 0.5}
			c.Barostat = BarostatConfig{Kind: "nose-hoover", Pressure: 1, W: 1000}
			c.ForceField.Cutoff = 0
		}),
		"npt_berendsen": ljFluid("lj_fluid", func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "berendsen", Temperature: 1.2, Tau: 0.1}
			c.Barostat = BarostatConfig{Kind: "berendsen", Pressure: 1, Tau: 1, Compressibility: 0.5}
			c.ForceField.Cutoff = 0
		}),
		"hot": ljFluid("lj_fluid", func(c *Config) {
			c.System.Temperature = 3
			c.Minimize.Enabled = true
			c.Thermostat = ThermostatConfig{Kind: "berendsen", Temperature: 3, Tau: 0.1}
		}),
	},
	"h2_gas": {
		"nve": h2Gas(nil),
		"berendsen": h2Gas(func(c *Config) {
			c.Thermostat = ThermostatConfig{Kind: "berendsen", Temperature: 1, Tau: 0.1}
		}),
	},
}

func h2Gas(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = "h2_gas"
	cfg.System = SystemConfig{
		Kind:        KindMolecules,
		Molecule:    "h2",
		Molecules:   27,
		Box:         []float64{9},
		Temperature: 1,
	}
	cfg.Integrator = IntegratorConfig{Dt: 0.001, Steps: 10000, SampleEvery: 20}
	cfg.Thermostat = ThermostatConfig{Kind: "none", Temperature: 1}
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

// GetPreset returns a copy of a preset, or nil when it does not exist.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListSystems() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
