package region

import (
	"fmt"
	"strings"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/pagexml"
)

// Text is a region built from a single spatial block. Lines are emitted in
// the order they were added, which follows the upstream OCR emission order.
type Text struct {
	path      model.Path
	polygon   geometry.Polygon
	lines     map[model.Path]model.Line
	texts     map[model.Path]string
	order     []model.Path
	transform Transform
}

// NewText creates a text region for one block.
func NewText(path model.Path, block geometry.Polygon, lines map[model.Path]model.Line, tf Transform) *Text {
	return &Text{
		path:      path,
		polygon:   block,
		lines:     lines,
		texts:     make(map[model.Path]string),
		transform: tf,
	}
}

// Path returns the block path.
func (t *Text) Path() model.Path { return t.path }

// AddText appends a line and its recognized text to the emission order.
// Adding the same line path twice indicates an upstream fault.
func (t *Text) AddText(line model.Path, text string) error {
	if _, dup := t.texts[line]; dup {
		return fmt.Errorf("line %s added twice to region %s", line, t.path)
	}
	t.order = append(t.order, line)
	t.texts[line] = text
	return nil
}

// LineText returns the recognized text for a held line.
func (t *Text) LineText(line model.Path) (string, bool) {
	s, ok := t.texts[line]
	return s, ok
}

// ExportPlainTextRegion emits every held line in order.
func (t *Text) ExportPlainTextRegion(sink TextSink) {
	for _, p := range t.order {
		sink.AppendText(p, t.texts[p])
	}
}

// ExportPlainTextLine emits a single held line.
func (t *Text) ExportPlainTextLine(sink TextSink, line model.Path) error {
	text, ok := t.texts[line]
	if !ok {
		return fmt.Errorf("line %s not held by region %s", line, t.path)
	}
	sink.AppendText(line, text)
	return nil
}

// ExportPageXML emits the region outline and one TextLine per held line. A
// line whose transformed geometry is empty while its text is non-empty is a
// fatal consistency error: the detector produced text without geometry.
func (t *Text) ExportPageXML(px *pagexml.Document) error {
	outline, err := t.transform(t.polygon)
	if err != nil {
		return fmt.Errorf("region %s: %w", t.path, err)
	}
	if outline.IsEmpty() {
		return fmt.Errorf("region %s has no geometry inside the page box", t.path)
	}

	pxRegion := px.AppendRegion(pagexml.KindText, t.path.RegionID())
	pxRegion.AppendCoords(outline.ExteriorPoints())

	for _, linePath := range t.order {
		line, ok := t.lines[linePath]
		if !ok {
			return fmt.Errorf("region %s holds text for unknown line %s", t.path, linePath)
		}
		shape, err := t.transform(line.Polygon)
		if err != nil {
			return fmt.Errorf("line %s: %w", linePath, err)
		}
		if shape.IsEmpty() {
			if strings.TrimSpace(t.texts[linePath]) != "" {
				return fmt.Errorf("line %s has text %q, confidence %.2f, but empty geometry",
					linePath, t.texts[linePath], line.Confidence)
			}
			continue
		}
		pxLine := pxRegion.AppendTextLine(linePath.RegionID())
		pxLine.AppendCoords(shape.ExteriorPoints())
		pxLine.AppendTextEquiv(t.texts[linePath])
	}
	return nil
}
