package geometry

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Polygon is a possibly-empty area on the page. The zero value is empty.
type Polygon struct {
	g geom.Geometry
}

// Empty returns an empty polygon.
func Empty() Polygon {
	return Polygon{}
}

// FromPoints builds a polygon from an exterior ring. The ring is closed if
// the last point does not repeat the first. A ring that does not form a
// valid simple polygon (detectors occasionally emit self-touching outlines)
// is replaced by its convex hull so that downstream set operations stay
// well-defined.
func FromPoints(pts []Point) (Polygon, error) {
	if len(pts) < 3 {
		return Polygon{}, fmt.Errorf("polygon ring needs at least 3 points, got %d", len(pts))
	}
	closed := pts
	if pts[0] != pts[len(pts)-1] {
		closed = make([]Point, 0, len(pts)+1)
		closed = append(closed, pts...)
		closed = append(closed, pts[0])
	}
	coords := make([]float64, 0, 2*len(closed))
	for _, p := range closed {
		coords = append(coords, p.X, p.Y)
	}
	ring := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	poly := geom.NewPolygon([]geom.LineString{ring})
	if err := poly.Validate(); err != nil {
		hull := ring.AsGeometry().ConvexHull()
		if p, ok := hull.AsPolygon(); ok {
			return Polygon{g: p.AsGeometry()}, nil
		}
		return Polygon{}, fmt.Errorf("degenerate polygon ring: %v", err)
	}
	return Polygon{g: poly.AsGeometry()}, nil
}

// IsEmpty reports whether the polygon covers no area.
func (p Polygon) IsEmpty() bool {
	return p.g.IsEmpty()
}

// ExteriorPoints returns the exterior ring without the closing vertex. It
// returns nil for an empty polygon.
func (p Polygon) ExteriorPoints() []Point {
	poly, ok := p.g.AsPolygon()
	if !ok || p.g.IsEmpty() {
		return nil
	}
	seq := poly.ExteriorRing().Coordinates()
	n := seq.Length()
	if n == 0 {
		return nil
	}
	pts := make([]Point, 0, n-1)
	for i := 0; i < n-1; i++ {
		xy := seq.GetXY(i)
		pts = append(pts, Point{X: xy.X, Y: xy.Y})
	}
	return pts
}

// Union merges the given polygons into one shape. If the union is not a
// single simple polygon (disjoint members, for instance) its convex hull is
// substituted, so the result is always representable as one exterior ring.
func Union(polys []Polygon) (Polygon, error) {
	acc := geom.Geometry{}
	for _, p := range polys {
		if p.IsEmpty() {
			continue
		}
		if acc.IsEmpty() {
			acc = p.g
			continue
		}
		u, err := geom.Union(acc, p.g)
		if err != nil {
			return Polygon{}, fmt.Errorf("polygon union: %w", err)
		}
		acc = u
	}
	if acc.IsEmpty() {
		return Polygon{}, nil
	}
	if poly, ok := acc.AsPolygon(); ok {
		return Polygon{g: poly.AsGeometry()}, nil
	}
	hull := acc.ConvexHull()
	poly, ok := hull.AsPolygon()
	if !ok {
		return Polygon{}, nil
	}
	return Polygon{g: poly.AsGeometry()}, nil
}

// Clip intersects the polygon with the axis-aligned box [0,0]x(width,
// height). A result that degenerates below a polygon (a sliver clipped to a
// line, or nothing at all) comes back empty.
func Clip(p Polygon, width, height float64) (Polygon, error) {
	if p.IsEmpty() {
		return Polygon{}, nil
	}
	box, err := FromPoints([]Point{{0, 0}, {width, 0}, {width, height}, {0, height}})
	if err != nil {
		return Polygon{}, err
	}
	inter, err := geom.Intersection(p.g, box.g)
	if err != nil {
		// Retry on the hull; warped-space rings can come out slightly
		// self-intersecting after vertex mapping.
		inter, err = geom.Intersection(p.g.ConvexHull(), box.g)
		if err != nil {
			return Polygon{}, fmt.Errorf("clip to page box: %w", err)
		}
	}
	if inter.IsEmpty() {
		return Polygon{}, nil
	}
	if poly, ok := inter.AsPolygon(); ok {
		return Polygon{g: poly.AsGeometry()}, nil
	}
	if poly, ok := inter.ConvexHull().AsPolygon(); ok {
		return Polygon{g: poly.AsGeometry()}, nil
	}
	return Polygon{}, nil
}

// Distance returns the minimum distance between two polygons. ok is false
// when either polygon is empty.
func Distance(a, b Polygon) (float64, bool) {
	return geom.Distance(a.g, b.g)
}

// Transform applies fn to every exterior vertex and rebuilds the polygon.
// Interior rings are not carried; the engine only ever emits exterior
// outlines.
func (p Polygon) Transform(fn func(Point) Point) (Polygon, error) {
	if p.IsEmpty() {
		return Polygon{}, nil
	}
	pts := p.ExteriorPoints()
	mapped := make([]Point, len(pts))
	for i, pt := range pts {
		mapped[i] = fn(pt)
	}
	return FromPoints(mapped)
}
