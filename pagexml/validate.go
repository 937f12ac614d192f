package pagexml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrValidation marks a structural validation failure. Validation failures
// are fatal to the structured export only; the plain-text export of the
// same page is unaffected.
var ErrValidation = errors.New("page xml validation failed")

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate structurally checks a serialized document: a single page with a
// positive image size, unique element ids, every outline inside the page
// box with non-negative integer coordinates, and reading-order references
// that resolve to existing regions with contiguous indexes.
func Validate(data []byte) error {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return validationError("not well-formed: %v", err)
	}

	pages := xmlquery.Find(doc, "//Page")
	if len(pages) != 1 {
		return validationError("want exactly 1 Page element, found %d", len(pages))
	}
	page := pages[0]
	width, err := strconv.Atoi(page.SelectAttr("imageWidth"))
	if err != nil || width <= 0 {
		return validationError("Page has invalid imageWidth %q", page.SelectAttr("imageWidth"))
	}
	height, err := strconv.Atoi(page.SelectAttr("imageHeight"))
	if err != nil || height <= 0 {
		return validationError("Page has invalid imageHeight %q", page.SelectAttr("imageHeight"))
	}

	ids := make(map[string]bool)
	for _, n := range xmlquery.Find(doc, "//*[@id]") {
		id := n.SelectAttr("id")
		if ids[id] {
			return validationError("duplicate element id %q", id)
		}
		ids[id] = true
	}

	for _, n := range xmlquery.Find(doc, "//Coords") {
		if err := checkPoints(n.SelectAttr("points"), width, height); err != nil {
			return err
		}
	}

	for _, group := range xmlquery.Find(doc, "//OrderedGroup") {
		refs := xmlquery.Find(group, "RegionRefIndexed")
		for i, ref := range refs {
			target := ref.SelectAttr("regionRef")
			if !ids[target] {
				return validationError("reading order references unknown region %q", target)
			}
			idx, err := strconv.Atoi(ref.SelectAttr("index"))
			if err != nil || idx != i {
				return validationError("reading order group %q has index %q at position %d",
					group.SelectAttr("id"), ref.SelectAttr("index"), i)
			}
		}
	}
	return nil
}

func checkPoints(points string, width, height int) error {
	pairs := strings.Fields(points)
	if len(pairs) < 3 {
		return validationError("outline %q has fewer than 3 points", points)
	}
	for _, pair := range pairs {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return validationError("malformed coordinate %q", pair)
		}
		x, errX := strconv.Atoi(xy[0])
		y, errY := strconv.Atoi(xy[1])
		if errX != nil || errY != nil {
			return validationError("non-integer coordinate %q", pair)
		}
		if x < 0 || y < 0 || x > width || y > height {
			return validationError("coordinate %q outside page box %dx%d", pair, width, height)
		}
	}
	return nil
}
