package sim

import (
	"time"

	"github.com/san-kum/mdsim/internal/md"
)

// Metric accumulates a scalar over the observed steps of a run.
type Metric interface {
	Name() string
	Observe(s *md.State)
	Value() float64
	Reset()
}

// Observer is notified after every step.
type Observer interface {
	OnStep(s *md.State)
}

type ObserverFunc func(s *md.State)

func (f ObserverFunc) OnStep(s *md.State) { f(s) }

type RunConfig struct {
	Steps int
	// SampleEvery records a Sample every n steps. Zero means every step.
	SampleEvery int
}

// Sample is a thermodynamic snapshot.
type Sample struct {
	Step        int     `json:"step"`
	Time        float64 `json:"time"`
	Kinetic     float64 `json:"kinetic"`
	Potential   float64 `json:"potential"`
	Total       float64 `json:"total"`
	Conserved   float64 `json:"conserved"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Volume      float64 `json:"volume"`
}

func SampleOf(s *md.State) Sample {
	ke := s.KineticEnergy()
	return Sample{
		Step:        s.Step,
		Time:        s.Time,
		Kinetic:     ke,
		Potential:   s.Potential,
		Total:       ke + s.Potential,
		Conserved:   s.ConservedEnergy(),
		Temperature: s.Temperature(),
		Pressure:    s.Pressure(),
		Volume:      s.Volume(),
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	// EnergyDrift is |ΔE|/|E0| of the conserved energy over the run.
	EnergyDrift  float64
	Degeneracies md.Degeneracies
	Elapsed      time.Duration
}

// Column extracts one field of every sample.
func (r *Result) Column(get func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = get(s)
	}
	return out
}
