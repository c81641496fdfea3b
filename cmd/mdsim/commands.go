package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/analysis"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/export"
	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/minimize"
	"github.com/san-kum/mdsim/internal/observability"
	"github.com/san-kum/mdsim/internal/optim"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
)

var sampleFields = map[string]func(sim.Sample) float64{
	"kinetic":     func(s sim.Sample) float64 { return s.Kinetic },
	"potential":   func(s sim.Sample) float64 { return s.Potential },
	"total":       func(s sim.Sample) float64 { return s.Total },
	"conserved":   func(s sim.Sample) float64 { return s.Conserved },
	"temperature": func(s sim.Sample) float64 { return s.Temperature },
	"pressure":    func(s sim.Sample) float64 { return s.Pressure },
	"volume":      func(s sim.Sample) float64 { return s.Volume },
}

func fieldNames() []string {
	names := make([]string, 0, len(sampleFields))
	for name := range sampleFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log := newLogger(cmd)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, log)

	exp, err := experiment.New(cfg, nil, log)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		collector, err := observability.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		exp.SetCollector(collector)

		srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(collector)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s (%s, %d particles, %d steps)...\n",
		cfg.Name, exp.State().Kind(), exp.State().Len(), cfg.Integrator.Steps)

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	if m := exp.Minimization; m != nil {
		fmt.Fprintf(out, "minimized: %d iterations, energy %.6f -> %.6f\n", m.Iterations, m.InitialEnergy, m.FinalEnergy)
	}

	fmt.Fprintf(out, "completed in %v\n", result.Elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, exp.State(), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	printSummary(out, result)
	return nil
}

func metricsMux(c *observability.Collector) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return mux
}

func printSummary(out io.Writer, result *sim.Result) {
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "energy drift: %.3e\n", result.EnergyDrift)
	if d := result.Degeneracies; d.Total() > 0 {
		fmt.Fprintf(out, "degeneracies: clamped pairs %d, zero-length bonds %d, skipped rescales %d, cutoff violations %d\n",
			d.ClampedPairs, d.ZeroLengthBonds, d.SkippedRescales, d.CutoffViolations)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	factory := func() (*sim.Simulator, error) {
		exp, err := experiment.New(cfg.Clone(), nil, nil)
		if err != nil {
			return nil, err
		}
		if err := exp.Minimize(cmd.Context()); err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	m, err := viz.NewModel(cfg.Name, factory, stepsPerFrame)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runMinimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	exp, err := experiment.New(cfg, nil, log)
	if err != nil {
		return err
	}
	opts := minimize.DefaultOptions()
	if cfg.Minimize.MaxIterations > 0 {
		opts.MaxIterations = cfg.Minimize.MaxIterations
	}
	if cfg.Minimize.ForceTolerance > 0 {
		opts.ForceTolerance = cfg.Minimize.ForceTolerance
	}
	if cfg.Minimize.Step > 0 {
		opts.Step = cfg.Minimize.Step
	}

	res, err := minimize.SteepestDescent(cmd.Context(), exp.State(), exp.ForceField(), opts, log)
	if err != nil && !errors.Is(err, minimize.ErrNotConverged) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "iterations: %d\n", res.Iterations)
	fmt.Fprintf(out, "converged: %v\n", res.Converged)
	fmt.Fprintf(out, "energy: %.6f -> %.6f\n", res.InitialEnergy, res.FinalEnergy)
	fmt.Fprintf(out, "max force: %.3e\n", res.MaxForce)

	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := storage.WriteXYZ(f, exp.State(), cfg.Name+" minimized"); err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := config.Build(cfg)
	if err != nil {
		return err
	}

	const evaluations = 200
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s force evaluation (%d particles)\n\n", cfg.Name, s.Len())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tEVALS/SEC")

	for _, n := range []int{1, 2, 4, 8} {
		opts := forcefield.Options{
			MinDistance:      cfg.ForceField.MinDistance,
			Cutoff:           cfg.ForceField.Cutoff,
			BondMinimumImage: cfg.ForceField.BondMinimumImage,
			Workers:          n,
		}
		ff, err := forcefield.New(s, opts)
		if err != nil {
			return err
		}
		start := time.Now()
		for i := 0; i < evaluations; i++ {
			ff.Compute(s)
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%v\t%.0f\n", n, elapsed, evaluations/elapsed.Seconds())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tN\tSTEPS\tDT\tTHERMOSTAT\tBAROSTAT\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%s\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Dt,
			run.Thermostat,
			run.Barostat,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fields := []string{"conserved", "kinetic", "potential", "temperature", "pressure"}
	if meta.Barostat != "none" {
		fields = append(fields, "volume")
	}
	if plotField != "all" {
		if _, ok := sampleFields[plotField]; !ok {
			return fmt.Errorf("unknown field: %s (available: %s)", plotField, strings.Join(fieldNames(), ", "))
		}
		fields = []string{plotField}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "system: %s\n", meta.System)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))

	if svgFile != "" {
		if err := writeChart(svgFile, samples, fields); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n\n", svgFile)
	}

	for _, name := range fields {
		graph := asciigraph.Plot(column(samples, sampleFields[name]),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func writeChart(path string, samples []sim.Sample, fields []string) error {
	steps := column(samples, func(s sim.Sample) float64 { return float64(s.Step) })
	series := make([]export.Series, len(fields))
	for i, name := range fields {
		series[i] = export.Series{Name: name, X: steps, Y: column(samples, sampleFields[name])}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.ChartSVG(f, series, 800, 160); err != nil {
		return err
	}
	return f.Close()
}

func column(samples []sim.Sample, get func(sim.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportJSON(cmd.OutOrStdout(), args[0])
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := st.ExportJSON(f, args[0]); err != nil {
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	get, ok := sampleFields[analyzeField]
	if !ok {
		return fmt.Errorf("unknown field: %s (available: %s)", analyzeField, strings.Join(fieldNames(), ", "))
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	samples = regular(samples)
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}
	interval := samples[1].Time - samples[0].Time
	data := column(samples, get)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analysis of %s: %s\n", analyzeField, meta.ID)
	fmt.Fprintf(out, "samples: %d every %g time units\n\n", len(data), interval)

	ps := analysis.PowerSpectrum(data)
	fmt.Fprintln(out, asciigraph.Plot(ps[1:],
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+analyzeField+")"),
	))
	fmt.Fprintln(out)

	if period, err := analysis.DominantPeriod(data, interval); err == nil {
		fmt.Fprintf(out, "dominant period: %.4f\n", period)
	} else {
		fmt.Fprintf(out, "dominant period: %v\n", err)
	}
	if period, err := analysis.PeakPeriod(data, interval); err == nil {
		fmt.Fprintf(out, "peak period: %.4f\n", period)
	} else {
		fmt.Fprintf(out, "peak period: %v\n", err)
	}
	if est, err := analysis.BlockAverage(data, blocks); err == nil {
		fmt.Fprintf(out, "block average: %.6f ± %.6f (%d blocks)\n", est.Mean, est.StdErr, est.Blocks)
	} else {
		fmt.Fprintf(out, "block average: %v\n", err)
	}
	return nil
}

// regular drops a trailing sample that is off the sampling grid. Runs record
// their final step even when it does not fall on the interval.
func regular(samples []sim.Sample) []sim.Sample {
	n := len(samples)
	if n < 3 {
		return samples
	}
	every := samples[1].Step - samples[0].Step
	if samples[n-1].Step-samples[n-2].Step != every {
		return samples[:n-1]
	}
	return samples
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "systems:")
		for _, name := range config.ListSystems() {
			fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(config.ListPresets(name), ", "))
		}
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Fprintf(out, "no presets for system: %s\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func sweepSystem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	log := newLogger(cmd)
	g, err := optim.NewGridSearch(names, ranges, replicas, log)
	if err != nil {
		return err
	}
	best, points, err := g.Search(cmd.Context(), cfg, sweepMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSTDDEV\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, p := range points {
		cols := make([]string, len(names))
		for i, name := range names {
			cols[i] = strconv.FormatFloat(p.Params[name], 'g', -1, 64)
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%s\tfailed: %v\t\n", strings.Join(cols, "\t"), p.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\n", strings.Join(cols, "\t"), p.Value, p.StdDev)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, best.Params[name])
	}
	fmt.Fprintf(out, "\nbest: %s (%s %.6g)\n", strings.Join(parts, " "), sweepMetric, best.Value)
	return nil
}

// parseParam splits "name=v1,v2,..." into its name and values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
