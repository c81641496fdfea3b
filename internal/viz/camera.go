package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mdsim/internal/vec"
)

// Camera orbits the centre of the simulation box.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	// Distance is in units of the box diagonal.
	Distance float64
}

func NewCamera() *Camera {
	return &Camera{RotX: -0.4, RotY: 0.6, Zoom: 1, Distance: 2.5}
}

func (c *Camera) Rotate(dx, dy float64) { c.RotX += dx; c.RotY += dy }
func (c *Camera) ZoomIn()               { c.Zoom = math.Min(8, c.Zoom*1.2) }
func (c *Camera) ZoomOut()              { c.Zoom = math.Max(0.125, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.RotX).Mul3(mgl64.Rotate3DY(c.RotY))
}

// Project maps p inside box to dot coordinates of a w x h dot canvas. ok is
// false for points behind the camera.
func (c *Camera) Project(box vec.Box, p vec.Vec3, w, h int) (x, y int, ok bool) {
	diag := box.Edges.Len()
	centred := p.Sub(box.Edges.Mul(0.5)).Mul(1 / diag)
	r := c.rotation().Mul3x1(centred)

	depth := c.Distance - r.Z()
	if depth <= 0.05 {
		return 0, 0, false
	}
	// terminal dots are roughly twice as tall as wide on screen
	scale := c.Zoom * c.Distance / depth * math.Min(float64(w), 2*float64(h)) * 0.5
	x = int(math.Round(float64(w)/2 + r.X()*scale))
	y = int(math.Round(float64(h)/2 - r.Y()*scale*0.5))
	return x, y, true
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBox draws the twelve edges of the periodic cell.
func (c *Camera) DrawBox(cv *Canvas, box vec.Box) {
	var corners [8]vec.Vec3
	for i := range corners {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corners[i][axis] = box.Edges[axis]
			}
		}
	}
	for _, e := range boxEdges {
		x0, y0, ok0 := c.Project(box, corners[e[0]], cv.DotsWide(), cv.DotsHigh())
		x1, y1, ok1 := c.Project(box, corners[e[1]], cv.DotsWide(), cv.DotsHigh())
		if ok0 && ok1 {
			cv.Line(x0, y0, x1, y1)
		}
	}
}

// DrawPoints lights one dot per position.
func (c *Camera) DrawPoints(cv *Canvas, box vec.Box, points []vec.Vec3) {
	for _, p := range points {
		if x, y, ok := c.Project(box, p, cv.DotsWide(), cv.DotsHigh()); ok {
			cv.Set(x, y)
		}
	}
}
