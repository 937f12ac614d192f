package region

import (
	"fmt"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/pagexml"
)

// Graphic is an illustration region: exactly one spatial block, no lines.
// It has no plain-text capability.
type Graphic struct {
	path      model.Path
	polygon   geometry.Polygon
	transform Transform
}

// NewGraphic creates a graphic region for one illustration block.
func NewGraphic(path model.Path, block geometry.Polygon, tf Transform) *Graphic {
	return &Graphic{path: path, polygon: block, transform: tf}
}

// Path returns the block path.
func (g *Graphic) Path() model.Path { return g.path }

// ExportPageXML emits a single outline element with no children. A graphic
// whose outline clips to nothing carries no text to lose, so it is dropped
// from the document together with its reading-order reference.
func (g *Graphic) ExportPageXML(px *pagexml.Document) error {
	outline, err := g.transform(g.polygon)
	if err != nil {
		return fmt.Errorf("region %s: %w", g.path, err)
	}
	pxRegion := px.AppendRegion(pagexml.KindGraphic, g.path.RegionID())
	if outline.IsEmpty() {
		px.Remove(pxRegion)
		return nil
	}
	pxRegion.AppendCoords(outline.ExteriorPoints())
	return nil
}
