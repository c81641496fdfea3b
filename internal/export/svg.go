package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/mdsim/internal/viz"
)

// Series is one named line of a chart.
type Series struct {
	Name   string
	X, Y   []float64
	Stroke string
}

var palette = []string{"#00ff88", "#00ccff", "#ffaa00", "#ff4444", "#cc88ff", "#ffffff"}

// ChartSVG writes the series as stacked panels sharing the x axis, one panel
// per series, each scaled to its own range.
func ChartSVG(w io.Writer, series []Series, width, panelHeight int) error {
	if len(series) == 0 {
		return fmt.Errorf("export: no series")
	}
	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("export: series %s has %d x and %d y values", s.Name, len(s.X), len(s.Y))
		}
		if len(s.X) < 2 {
			return fmt.Errorf("export: series %s needs at least two points", s.Name)
		}
	}

	const margin = 20.0
	height := panelHeight * len(series)
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		stroke := s.Stroke
		if stroke == "" {
			stroke = palette[i%len(palette)]
		}
		top := float64(i * panelHeight)
		minX, maxX := bounds(s.X)
		minY, maxY := bounds(s.Y)
		if maxX == minX {
			maxX = minX + 1
		}
		if maxY == minY {
			minY, maxY = minY-0.5, maxY+0.5
		}

		plotW := float64(width) - 2*margin
		plotH := float64(panelHeight) - 2*margin
		fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" fill="#888899" font-family="monospace" font-size="12">%s [%.4g, %.4g]</text>
`, margin, top+14, escape(s.Name), minY, maxY)
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
		for j := range s.X {
			x := margin + (s.X[j]-minX)/(maxX-minX)*plotW
			y := top + margin + plotH - (s.Y[j]-minY)/(maxY-minY)*plotH
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, y)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// CanvasSVG writes every lit dot of a braille canvas as a circle.
func CanvasSVG(w io.Writer, c *viz.Canvas, scale float64) error {
	width := float64(c.DotsWide()) * scale
	height := float64(c.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < c.DotsHigh(); y++ {
		for x := 0; x < c.DotsWide(); x++ {
			if c.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
