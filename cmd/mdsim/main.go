package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/logging"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile  string
	preset      string
	steps       int
	dt          float64
	seed        int64
	thermo      string
	temperature float64
	workers     int
	minimizeRun bool

	metricsAddr   string
	noSave        bool
	stepsPerFrame int
	plotField     string
	analyzeField  string
	blocks        int
	outFile       string
	svgFile       string
	sweepParams   []string
	sweepMetric   string
	replicas      int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mdsim",
		Short:         "classical molecular dynamics in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 5, "integration steps per frame")

	minimizeCmd := &cobra.Command{
		Use:   "minimize [system]",
		Short: "relax a system with steepest descent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMinimize,
	}
	addConfigFlags(minimizeCmd)
	minimizeCmd.Flags().StringVar(&outFile, "out", "", "write the relaxed frame as xyz")

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "compare force evaluation across worker counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSystem,
	}
	addConfigFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sampled quantity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "all", "sample field to plot, or all")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to an svg file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "grid search run parameters for the smallest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepSystem,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter grid, e.g. dt=0.001,0.002 (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")
	sweepCmd.Flags().IntVar(&replicas, "replicas", 1, "independent seeds per grid point")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum, period and block statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeField, "field", "potential", "sample field to analyze")
	analyzeCmd.Flags().IntVar(&blocks, "blocks", 10, "number of blocks for the block average")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list systems, or the presets of one system",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, minimizeCmd, benchCmd, sweepCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd)
	return rootCmd
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "nve", "preset of the system")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&thermo, "thermostat", "", "thermostat (none, berendsen, nose-hoover, andersen)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "target temperature")
	cmd.Flags().IntVar(&workers, "workers", 0, "force evaluation workers")
	cmd.Flags().BoolVar(&minimizeRun, "minimize", false, "relax the system before running")
}

// resolveConfig loads --config, or the preset of system, and applies the
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		system := "lj_fluid"
		if len(args) > 0 {
			system = args[0]
		}
		name := preset
		if available := config.ListPresets(system); !cmd.Flags().Changed("preset") && config.GetPreset(system, name) == nil && len(available) > 0 {
			name = available[0]
		}
		cfg = config.GetPreset(system, name)
		if cfg == nil {
			if len(config.ListPresets(system)) == 0 {
				return nil, fmt.Errorf("unknown system: %s (available: %v)", system, config.ListSystems())
			}
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Integrator.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Integrator.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("thermostat") {
		cfg.Thermostat.Kind = thermo
	}
	if flags.Changed("temperature") {
		cfg.Thermostat.Temperature = temperature
	}
	if flags.Changed("workers") {
		cfg.ForceField.Workers = workers
	}
	if flags.Changed("minimize") {
		cfg.Minimize.Enabled = minimizeRun
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) logging.Logger {
	return logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: cmd.ErrOrStderr(),
	})
}
