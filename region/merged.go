package region

import (
	"fmt"
	"strings"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/pagexml"
)

// MergedLine is one member of a merged region, in accumulation order.
type MergedLine struct {
	Path model.Path
	Line model.Line
	Text string
}

// Merged is a text region synthesized from a run of regionless
// reading-order lines. Its geometry is the union of the member line
// polygons. Merged regions only arise on the structured-export path and
// intentionally have no plain-text capability.
type Merged struct {
	path      model.Path
	entries   []MergedLine
	polygon   geometry.Polygon
	transform Transform
}

// NewMerged creates a merged region spanning exactly the given lines.
func NewMerged(path model.Path, entries []MergedLine, tf Transform) (*Merged, error) {
	polys := make([]geometry.Polygon, 0, len(entries))
	for _, e := range entries {
		polys = append(polys, e.Line.Polygon)
	}
	union, err := geometry.Union(polys)
	if err != nil {
		return nil, fmt.Errorf("merged region %s: %w", path, err)
	}
	return &Merged{path: path, entries: entries, polygon: union, transform: tf}, nil
}

// Path returns the synthetic block path allocated for the region.
func (m *Merged) Path() model.Path { return m.path }

// Lines returns the member lines in accumulation order.
func (m *Merged) Lines() []MergedLine { return m.entries }

// ExportPageXML emits the merged outline and the member lines in
// accumulation order. Line ids are derived from the synthetic region path
// plus the member index.
func (m *Merged) ExportPageXML(px *pagexml.Document) error {
	outline, err := m.transform(m.polygon)
	if err != nil {
		return fmt.Errorf("region %s: %w", m.path, err)
	}
	pxRegion := px.AppendRegion(pagexml.KindText, m.path.RegionID())
	if outline.IsEmpty() {
		for _, e := range m.entries {
			if strings.TrimSpace(e.Text) != "" {
				return fmt.Errorf("region %s has text %q but no geometry inside the page box",
					m.path, e.Text)
			}
		}
		px.Remove(pxRegion)
		return nil
	}
	pxRegion.AppendCoords(outline.ExteriorPoints())

	for i, e := range m.entries {
		shape, err := m.transform(e.Line.Polygon)
		if err != nil {
			return fmt.Errorf("line %s: %w", e.Path, err)
		}
		if shape.IsEmpty() {
			if strings.TrimSpace(e.Text) != "" {
				return fmt.Errorf("line %s has text %q, confidence %.2f, but empty geometry",
					e.Path, e.Text, e.Line.Confidence)
			}
			continue
		}
		pxLine := pxRegion.AppendTextLine(fmt.Sprintf("%s-%d", m.path.RegionID(), i))
		pxLine.AppendCoords(shape.ExteriorPoints())
		pxLine.AppendTextEquiv(e.Text)
	}
	return nil
}
