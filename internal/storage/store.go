package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	configFile   = "config.yaml"
	finalFile    = "final.xyz"
)

var sampleHeader = []string{"step", "time", "kinetic", "potential", "total", "conserved", "temperature", "pressure", "volume"}

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	System       string             `json:"system"`
	Kind         string             `json:"kind"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	Particles    int                `json:"particles"`
	Thermostat   string             `json:"thermostat"`
	Barostat     string             `json:"barostat"`
	EnergyDrift  float64            `json:"energy_drift"`
	Degeneracies md.Degeneracies    `json:"degeneracies"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes metadata, the config, every sample and the final frame of a
// finished run. It returns the run ID.
func (s *Store) Save(cfg *config.Config, state *md.State, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		System:       cfg.Name,
		Kind:         state.Kind().String(),
		Timestamp:    now,
		Seed:         cfg.Seed,
		Dt:           cfg.Integrator.Dt,
		Steps:        result.StepsTaken,
		Particles:    state.Len(),
		Thermostat:   cfg.Thermostat.Kind,
		Barostat:     cfg.Barostat.Kind,
		EnergyDrift:  result.EnergyDrift,
		Degeneracies: result.Degeneracies,
		Elapsed:      result.Elapsed,
		Metrics:      result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, finalFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteXYZ(f, state, fmt.Sprintf("%s step=%d", runID, state.Step)); err != nil {
		return "", err
	}

	return runID, f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			formatFloat(smp.Kinetic),
			formatFloat(smp.Potential),
			formatFloat(smp.Total),
			formatFloat(smp.Conserved),
			formatFloat(smp.Temperature),
			formatFloat(smp.Pressure),
			formatFloat(smp.Volume),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig reads back the config a run was started from.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, line+2, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(record []string) (sim.Sample, error) {
	var smp sim.Sample
	step, err := strconv.Atoi(record[0])
	if err != nil {
		return smp, err
	}
	smp.Step = step

	fields := []*float64{&smp.Time, &smp.Kinetic, &smp.Potential, &smp.Total, &smp.Conserved, &smp.Temperature, &smp.Pressure, &smp.Volume}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return smp, err
		}
		*dst = v
	}
	return smp, nil
}

// LoadFinal reads the positions of the last frame of a run.
func (s *Store) LoadFinal(runID string) (*Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, finalFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadXYZ(f)
}

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes a stored run's metadata and samples as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples})
}
