package pagexml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/scantext/folio/geometry"
)

const (
	schemaNamespace = "http://schema.primaresearch.org/PAGE/gts/pagecontent/2019-07-15"
	schemaInstance  = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation  = schemaNamespace + " " + schemaNamespace + "/pagecontent.xsd"
	creatorName     = "folio"
)

// Region element kinds.
const (
	KindText    = "TextRegion"
	KindTable   = "TableRegion"
	KindGraphic = "GraphicRegion"
)

type node struct {
	name     string
	attrs    []xml.Attr
	children []*node
	text     string
	hasText  bool
}

func (n *node) attr(name, value string) {
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *node) attrValue(name string) string {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *node) appendChild(name string) *node {
	c := &node{name: name}
	n.children = append(n.children, c)
	return c
}

func (n *node) removeChild(c *node) bool {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

func (n *node) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: n.name}, Attr: n.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.hasText {
		if err := enc.EncodeToken(xml.CharData(n.text)); err != nil {
			return err
		}
	}
	for _, c := range n.children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Document is one structured page document under construction.
type Document struct {
	root         *node
	page         *node
	readingOrder *ReadingOrder
}

// New creates a document for a page image of the given pixel size. The
// creation timestamp is fixed here so that exporting the same document
// repeatedly yields identical bytes.
func New(filename string, width, height int) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	root := &node{name: "PcGts"}
	root.attr("xmlns", schemaNamespace)
	root.attr("xmlns:xsi", schemaInstance)
	root.attr("xsi:schemaLocation", schemaLocation)

	meta := root.appendChild("Metadata")
	creator := meta.appendChild("Creator")
	creator.text, creator.hasText = creatorName, true
	created := meta.appendChild("Created")
	created.text, created.hasText = now, true
	changed := meta.appendChild("LastChange")
	changed.text, changed.hasText = now, true

	page := root.appendChild("Page")
	page.attr("imageFilename", filename)
	page.attr("imageWidth", fmt.Sprintf("%d", width))
	page.attr("imageHeight", fmt.Sprintf("%d", height))

	return &Document{root: root, page: page}
}

// Region is a region element (top-level or nested).
type Region struct {
	n  *node
	id string
}

// ID returns the element id.
func (r *Region) ID() string { return r.id }

// AppendRegion appends a top-level region of the given kind to the page.
func (d *Document) AppendRegion(kind, id string) *Region {
	n := d.page.appendChild(kind)
	n.attr("id", id)
	return &Region{n: n, id: id}
}

// Remove detaches a top-level region from the page together with its
// reading-order reference, reindexing the surviving references.
func (d *Document) Remove(r *Region) {
	d.page.removeChild(r.n)
	if d.readingOrder != nil {
		d.readingOrder.removeRef(r.id)
	}
}

// AppendCoords appends a Coords element with the given outline.
func (r *Region) AppendCoords(pts []geometry.Point) {
	r.n.children = append(r.n.children, coordsNode(pts))
}

// PrependCoords inserts a Coords element before the region's children.
// Parent outlines are computed bottom-up from their children but must
// render first.
func (r *Region) PrependCoords(pts []geometry.Point) {
	r.n.children = append([]*node{coordsNode(pts)}, r.n.children...)
}

// AppendTextRegion nests a TextRegion inside r (table columns, divisions
// and cells are nested text regions).
func (r *Region) AppendTextRegion(id string) *Region {
	n := r.n.appendChild(KindText)
	n.attr("id", id)
	return &Region{n: n, id: id}
}

// Remove detaches a nested child region.
func (r *Region) Remove(child *Region) {
	r.n.removeChild(child.n)
}

// TextLine is a line element within a region.
type TextLine struct {
	n *node
}

// AppendTextLine appends a TextLine element to the region.
func (r *Region) AppendTextLine(id string) *TextLine {
	n := r.n.appendChild("TextLine")
	n.attr("id", id)
	return &TextLine{n: n}
}

// AppendCoords appends the line outline.
func (l *TextLine) AppendCoords(pts []geometry.Point) {
	l.n.children = append(l.n.children, coordsNode(pts))
}

// AppendTextEquiv appends the recognized text, which may be empty.
func (l *TextLine) AppendTextEquiv(text string) {
	te := l.n.appendChild("TextEquiv")
	u := te.appendChild("Unicode")
	u.text, u.hasText = text, true
}

// ReadingOrder is the document's reading-order section.
type ReadingOrder struct {
	n      *node
	groups []*OrderedGroup
}

// AppendReadingOrder appends the reading-order section to the page. It must
// be appended before any region so that it serializes first.
func (d *Document) AppendReadingOrder() *ReadingOrder {
	ro := &ReadingOrder{n: d.page.appendChild("ReadingOrder")}
	d.readingOrder = ro
	return ro
}

func (ro *ReadingOrder) removeRef(regionRef string) {
	for _, g := range ro.groups {
		kept := g.n.children[:0]
		for _, c := range g.n.children {
			if c.name == "RegionRefIndexed" && c.attrValue("regionRef") == regionRef {
				continue
			}
			kept = append(kept, c)
		}
		g.n.children = kept
		for i, c := range g.n.children {
			if c.name != "RegionRefIndexed" {
				continue
			}
			for j := range c.attrs {
				if c.attrs[j].Name.Local == "index" {
					c.attrs[j].Value = fmt.Sprintf("%d", i)
				}
			}
		}
	}
}

// OrderedGroup is an ordered group of region references.
type OrderedGroup struct {
	n *node
}

// AppendOrderedGroup appends an ordered group with the given id and caption.
func (ro *ReadingOrder) AppendOrderedGroup(id, caption string) *OrderedGroup {
	n := ro.n.appendChild("OrderedGroup")
	n.attr("id", id)
	n.attr("caption", caption)
	g := &OrderedGroup{n: n}
	ro.groups = append(ro.groups, g)
	return g
}

// AppendRegionRefIndexed appends an indexed reference to a region id.
func (g *OrderedGroup) AppendRegionRefIndexed(index int, regionRef string) {
	n := g.n.appendChild("RegionRefIndexed")
	n.attr("index", fmt.Sprintf("%d", index))
	n.attr("regionRef", regionRef)
}

func coordsNode(pts []geometry.Point) *node {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d,%d", roundCoord(p.X), roundCoord(p.Y))
	}
	n := &node{name: "Coords"}
	n.attr("points", sb.String())
	return n
}

func roundCoord(v float64) int {
	r := int(math.Round(v))
	if r < 0 && v > -0.5 {
		return 0
	}
	return r
}

// Write serializes the document, validating it first when validate is set.
func (d *Document) Write(w io.Writer, validate bool) error {
	data, err := d.Bytes(validate)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes serializes the document. With validate set, the serialized form is
// checked by [Validate] before being returned; a failure yields an error
// wrapping [ErrValidation] and no bytes.
func (d *Document) Bytes(validate bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := d.root.encode(enc); err != nil {
		return nil, fmt.Errorf("encode page xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode page xml: %w", err)
	}
	buf.WriteByte('\n')
	if validate {
		if err := Validate(buf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
