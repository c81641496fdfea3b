package vec

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a three component vector. Methods return new values.
type Vec3 = mgl64.Vec3

// ErrNonPositiveEdge indicates a box edge that is zero, negative or NaN.
var ErrNonPositiveEdge = errors.New("vec: box edge must be positive")

// Box is an orthorhombic periodic cell with its origin at zero.
type Box struct {
	Edges Vec3
}

// NewBox returns a box with the given edge lengths.
func NewBox(x, y, z float64) (Box, error) {
	b := Box{Edges: Vec3{x, y, z}}
	if err := b.Validate(); err != nil {
		return Box{}, err
	}
	return b, nil
}

// Cube returns a cubic box. It panics on a non-positive edge and is meant for
// tests and presets with literal edges.
func Cube(edge float64) Box {
	b, err := NewBox(edge, edge, edge)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Box) Validate() error {
	for axis, e := range b.Edges {
		if !(e > 0) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: axis %d = %g", ErrNonPositiveEdge, axis, e)
		}
	}
	return nil
}

func (b Box) Volume() float64 { return b.Edges[0] * b.Edges[1] * b.Edges[2] }

func (b Box) MinEdge() float64 {
	return math.Min(b.Edges[0], math.Min(b.Edges[1], b.Edges[2]))
}

// Scale returns the box with every edge multiplied by s.
func (b Box) Scale(s float64) Box {
	return Box{Edges: b.Edges.Mul(s)}
}

// MinimumImage shifts each component of d by the nearest multiple of the
// matching edge so that it lies in [-edge/2, edge/2).
func MinimumImage(b Box, d Vec3) Vec3 {
	var out Vec3
	for axis := 0; axis < 3; axis++ {
		out[axis] = minimumImage1(d[axis], b.Edges[axis])
	}
	return out
}

func minimumImage1(d, edge float64) float64 {
	half := 0.5 * edge
	if d >= -half && d < half {
		return d
	}
	d -= edge * math.Floor(d/edge+0.5)
	// rounding in the subtraction can land exactly on a boundary
	if d >= half {
		d -= edge
	} else if d < -half {
		d += edge
	}
	return d
}

// Wrap reduces p into [0, edge) on every axis.
func Wrap(b Box, p Vec3) Vec3 {
	var out Vec3
	for axis := 0; axis < 3; axis++ {
		out[axis] = wrap1(p[axis], b.Edges[axis])
	}
	return out
}

func wrap1(x, edge float64) float64 {
	if x >= 0 && x < edge {
		return x
	}
	r := math.Mod(x, edge)
	if r < 0 {
		r += edge
	}
	// tiny negative inputs round up to exactly edge
	if r >= edge {
		r = 0
	}
	return r
}

// Displacement returns the minimum image vector pointing from b to a.
func Displacement(box Box, a, b Vec3) Vec3 {
	return MinimumImage(box, a.Sub(b))
}

// Contains reports whether p lies in the primary cell.
func (b Box) Contains(p Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < 0 || p[axis] >= b.Edges[axis] {
			return false
		}
	}
	return true
}
