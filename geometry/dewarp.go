package geometry

import (
	"fmt"
	"math"
)

// Dewarper maps a point from analysis (dewarped) space back to original
// page-image space. Computing the forward grid is an upstream concern; the
// composition engine only ever applies the inverse.
type Dewarper interface {
	Inverse(Point) Point
}

// Identity is a no-op dewarper for pages that were never dewarped.
type Identity struct{}

// Inverse returns p unchanged.
func (Identity) Inverse(p Point) Point { return p }

// Mesh is a sampled inverse-dewarping grid: Points[r][c] is the image-space
// position of the analysis-space coordinate (c*step, r*step). Lookups
// between samples are bilinearly interpolated; lookups outside the lattice
// are clamped to its border cells.
type Mesh struct {
	step   float64
	points [][]Point
}

// NewMesh builds a mesh from a rectangular lattice of at least 2x2 sample
// points spaced step pixels apart in analysis space.
func NewMesh(step float64, points [][]Point) (*Mesh, error) {
	if step <= 0 {
		return nil, fmt.Errorf("mesh step must be positive, got %g", step)
	}
	if len(points) < 2 || len(points[0]) < 2 {
		return nil, fmt.Errorf("mesh needs at least 2x2 sample points")
	}
	cols := len(points[0])
	for r, row := range points {
		if len(row) != cols {
			return nil, fmt.Errorf("mesh row %d has %d points, want %d", r, len(row), cols)
		}
	}
	return &Mesh{step: step, points: points}, nil
}

// Inverse maps p into image space by bilinear interpolation over the
// lattice cell containing it.
func (m *Mesh) Inverse(p Point) Point {
	rows := len(m.points)
	cols := len(m.points[0])

	fx := p.X / m.step
	fy := p.Y / m.step
	c := clampIndex(math.Floor(fx), cols-2)
	r := clampIndex(math.Floor(fy), rows-2)
	tx := clamp01(fx - float64(c))
	ty := clamp01(fy - float64(r))

	p00 := m.points[r][c]
	p10 := m.points[r][c+1]
	p01 := m.points[r+1][c]
	p11 := m.points[r+1][c+1]

	top := lerp(p00, p10, tx)
	bottom := lerp(p01, p11, tx)
	return lerp(top, bottom, ty)
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func clampIndex(v float64, max int) int {
	if v < 0 {
		return 0
	}
	if int(v) > max {
		return max
	}
	return int(v)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Rewarp maps a polygon from analysis space to image space: every exterior
// vertex goes through the dewarper's inverse and the result is clipped to
// the page box. Clipping is mandatory; the structured output format rejects
// negative or out-of-bounds coordinates. An empty result means the polygon
// has no representable geometry in image space.
func Rewarp(p Polygon, d Dewarper, width, height float64) (Polygon, error) {
	if p.IsEmpty() {
		return Polygon{}, nil
	}
	warped, err := p.Transform(d.Inverse)
	if err != nil {
		return Polygon{}, fmt.Errorf("rewarp: %w", err)
	}
	return Clip(warped, width, height)
}
