package geometry

import (
	"math"
	"testing"
)

// rect builds an axis-aligned rectangle polygon.
func rect(t *testing.T, x0, y0, x1, y1 float64) Polygon {
	t.Helper()
	p, err := FromPoints([]Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}})
	if err != nil {
		t.Fatalf("rect: %v", err)
	}
	return p
}

func TestFromPoints(t *testing.T) {
	p := rect(t, 0, 0, 10, 10)
	if p.IsEmpty() {
		t.Fatal("rectangle should not be empty")
	}
	pts := p.ExteriorPoints()
	if len(pts) != 4 {
		t.Errorf("ExteriorPoints: got %d points, want 4", len(pts))
	}

	if _, err := FromPoints([]Point{{0, 0}, {1, 1}}); err == nil {
		t.Error("expected error for 2-point ring")
	}
}

func TestEmptyPolygon(t *testing.T) {
	p := Empty()
	if !p.IsEmpty() {
		t.Fatal("Empty() should be empty")
	}
	if pts := p.ExteriorPoints(); pts != nil {
		t.Errorf("ExteriorPoints of empty = %v", pts)
	}
	var zero Polygon
	if !zero.IsEmpty() {
		t.Error("zero value should be empty")
	}
}

func TestUnionOverlapping(t *testing.T) {
	a := rect(t, 0, 0, 10, 10)
	b := rect(t, 5, 0, 15, 10)
	u, err := Union([]Polygon{a, b})
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if u.IsEmpty() {
		t.Fatal("union of overlapping rectangles is empty")
	}
	for _, pt := range u.ExteriorPoints() {
		if pt.X < 0 || pt.X > 15 || pt.Y < 0 || pt.Y > 10 {
			t.Errorf("union vertex %v outside expected bounds", pt)
		}
	}
}

func TestUnionDisjointFallsBackToHull(t *testing.T) {
	a := rect(t, 0, 0, 10, 10)
	b := rect(t, 100, 0, 110, 10)
	u, err := Union([]Polygon{a, b})
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if u.IsEmpty() {
		t.Fatal("hull fallback produced empty polygon")
	}
	// The convex hull must span both rectangles.
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, pt := range u.ExteriorPoints() {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
	}
	if minX != 0 || maxX != 110 {
		t.Errorf("hull spans [%g, %g], want [0, 110]", minX, maxX)
	}
}

func TestUnionSkipsEmpty(t *testing.T) {
	u, err := Union([]Polygon{Empty(), rect(t, 0, 0, 5, 5), Empty()})
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if u.IsEmpty() {
		t.Fatal("union with empty members lost the non-empty one")
	}
	u, err = Union(nil)
	if err != nil {
		t.Fatalf("Union(nil): %v", err)
	}
	if !u.IsEmpty() {
		t.Error("union of nothing should be empty")
	}
}

func TestClip(t *testing.T) {
	p := rect(t, -10, -10, 50, 50)
	clipped, err := Clip(p, 40, 30)
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if clipped.IsEmpty() {
		t.Fatal("clip produced empty polygon")
	}
	for _, pt := range clipped.ExteriorPoints() {
		if pt.X < 0 || pt.Y < 0 || pt.X > 40 || pt.Y > 30 {
			t.Errorf("clipped vertex %v outside page box", pt)
		}
	}
}

func TestClipDegenerateToEmpty(t *testing.T) {
	// Entirely outside the page box.
	p := rect(t, 100, 100, 200, 200)
	clipped, err := Clip(p, 40, 30)
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if !clipped.IsEmpty() {
		t.Error("clip of polygon outside page should be empty")
	}
}

func TestDistance(t *testing.T) {
	a := rect(t, 0, 0, 10, 10)
	b := rect(t, 13, 0, 20, 10)
	d, ok := Distance(a, b)
	if !ok {
		t.Fatal("Distance: not defined")
	}
	if math.Abs(d-3) > 1e-9 {
		t.Errorf("Distance = %g, want 3", d)
	}
	if _, ok := Distance(a, Empty()); ok {
		t.Error("Distance to empty polygon should report not defined")
	}
}

func TestTransform(t *testing.T) {
	p := rect(t, 0, 0, 10, 10)
	shifted, err := p.Transform(func(pt Point) Point {
		return Point{X: pt.X + 5, Y: pt.Y + 7}
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for _, pt := range shifted.ExteriorPoints() {
		if pt.X < 5 || pt.Y < 7 {
			t.Errorf("vertex %v not shifted", pt)
		}
	}
}
