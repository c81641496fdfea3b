package optim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/logging"
)

// Setter applies one swept parameter to a config.
type Setter func(cfg *config.Config, v float64)

// Setters are the parameters GridSearch can sweep.
var Setters = map[string]Setter{
	"dt":          func(c *config.Config, v float64) { c.Integrator.Dt = v },
	"temperature": func(c *config.Config, v float64) { c.Thermostat.Temperature = v },
	"tau":         func(c *config.Config, v float64) { c.Thermostat.Tau = v },
	"q":           func(c *config.Config, v float64) { c.Thermostat.Q = v },
	"collision":   func(c *config.Config, v float64) { c.Thermostat.CollisionFrequency = v },
	"pressure":    func(c *config.Config, v float64) { c.Barostat.Pressure = v },
	"w":           func(c *config.Config, v float64) { c.Barostat.W = v },
	"cutoff":      func(c *config.Config, v float64) { c.ForceField.Cutoff = v },
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	StdDev float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	replicas   int
	log        logging.Logger
}

func NewGridSearch(params []string, ranges [][]float64, replicas int, log logging.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", name)
		}
	}
	if replicas <= 0 {
		replicas = 1
	}
	if log == nil {
		log = logging.Noop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, replicas: replicas, log: log}, nil
}

// Search evaluates metricName at every grid point, averaged over the
// replicas, and returns the point with the smallest value. Points whose run
// fails are reported with Err set and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Point, []Point, error) {
	var points []Point
	err := g.searchRecursive(ctx, 0, map[string]float64{}, base, metricName, &points)
	if err != nil {
		return Point{}, points, err
	}

	best := Point{Value: math.Inf(1)}
	for _, p := range points {
		if p.Err == nil && p.Value < best.Value {
			best = p
		}
	}
	if best.Params == nil {
		return Point{}, points, fmt.Errorf("every grid point failed")
	}
	return best, points, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, base *config.Config, metricName string, points *[]Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		*points = append(*points, g.evaluate(ctx, current, base, metricName))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, metricName string) Point {
	p := Point{Params: params}

	cfg := base.Clone()
	for name, v := range params {
		Setters[name](cfg, v)
	}

	results, err := experiment.RunEnsemble(ctx, cfg, g.replicas, g.log)
	if err != nil {
		p.Err = err
		g.log.Warn(ctx, "grid point failed", logging.Any("params", params), logging.Err(err))
		return p
	}

	values := make([]float64, 0, len(results))
	for _, r := range results {
		v, ok := r.Metrics[metricName]
		if !ok {
			p.Err = fmt.Errorf("run has no metric %q", metricName)
			return p
		}
		values = append(values, v)
	}
	p.Value = stat.Mean(values, nil)
	if len(values) > 1 {
		p.StdDev = stat.StdDev(values, nil)
	}
	g.log.Debug(ctx, "grid point", logging.Any("params", params), logging.Float(metricName, p.Value))
	return p
}
