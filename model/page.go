package model

import "github.com/scantext/folio/geometry"

// Line is one detected text line: its polygon in analysis (dewarped) space,
// the recognition confidence, and the block path the detector itself
// assigned it to (which may diverge from the path it was filed under).
type Line struct {
	Polygon    geometry.Polygon
	Confidence float64
	Predicted  Path
}

// Block is the geometry detected for one block path.
type Block struct {
	Polygon geometry.Polygon
}

// Page holds the original page image size in pixels and the dewarper whose
// inverse maps analysis-space coordinates back into image space.
type Page struct {
	Width  int
	Height int
	Grid   geometry.Dewarper
}

// Rewarp maps a polygon from analysis space to image space, clipped to the
// page bounds. An empty result means the polygon has no representable
// geometry on this page.
func (p Page) Rewarp(poly geometry.Polygon) (geometry.Polygon, error) {
	return geometry.Rewarp(poly, p.Grid, float64(p.Width), float64(p.Height))
}
