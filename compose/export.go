package compose

import (
	"github.com/scantext/folio/pagexml"
	"github.com/scantext/folio/region"
)

// ExportPlainText walks the raw reading order and composes the page text.
// An optional filter restricts which paths contribute; regions without the
// plain-text capability (graphics, merged regions) are skipped silently.
func (d *Document) ExportPlainText(filter *Filter, blockSeparator string) (string, error) {
	c := NewComposition(blockSeparator)

	for _, p := range d.Order() {
		if filter != nil && !filter.Matches(p) {
			continue
		}
		r, err := d.Get(p.BlockPath())
		if err != nil {
			return "", err
		}
		if r == nil {
			continue
		}
		pt, ok := r.(region.PlainTexter)
		if !ok {
			continue
		}
		if p.IsLine() {
			if err := pt.ExportPlainTextLine(c, p); err != nil {
				return "", err
			}
			continue
		}
		pt.ExportPlainTextRegion(c)
	}
	return c.Text(), nil
}

// ExportPageXML reconstructs the region-only reading order, emits the
// reading-order section and every region's subtree, and returns the
// validated document. Validation failure wraps [pagexml.ErrValidation] and
// leaves the plain-text export unaffected.
func (d *Document) ExportPageXML() ([]byte, error) {
	// The structured format does not allow reading orders mixing regions
	// and lines, so regionless line entries are merged into synthetic
	// regions first.
	ro, err := ReconstructOrder(d)
	if err != nil {
		return nil, err
	}

	px := pagexml.New(d.pagePath, d.page.Width, d.page.Height)
	pxOrder := px.AppendReadingOrder()
	group := pxOrder.AppendOrderedGroup("ro_regions", "regions reading order")
	for i, p := range ro.Paths() {
		group.AppendRegionRefIndexed(i, p.RegionID())
	}

	for _, r := range ro.Regions() {
		if err := r.ExportPageXML(px); err != nil {
			return nil, err
		}
	}
	return px.Bytes(true)
}
