package region

import (
	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/pagexml"
)

// Transform maps an analysis-space polygon to a clipped image-space
// polygon. An empty result means "no geometry", not an error.
type Transform func(geometry.Polygon) (geometry.Polygon, error)

// TextSink receives plain-text fragments in emission order, together with
// the path they originate from.
type TextSink interface {
	AppendText(path model.Path, text string)
}

// Region is one exportable page region.
type Region interface {
	// Path returns the block path the region is keyed by.
	Path() model.Path
	// ExportPageXML renders the region into the structured document.
	ExportPageXML(px *pagexml.Document) error
}

// PlainTexter is the plain-text export capability. Graphic and merged
// regions intentionally do not implement it.
type PlainTexter interface {
	Region
	// ExportPlainTextRegion emits the whole region.
	ExportPlainTextRegion(sink TextSink)
	// ExportPlainTextLine emits a single line of the region.
	ExportPlainTextLine(sink TextSink, line model.Path) error
}
