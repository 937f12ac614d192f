package compose

import (
	"fmt"
	"strconv"

	"github.com/scantext/folio/model"
	"github.com/scantext/folio/region"
)

// ReadingOrder is the reconstructed, region-only reading order: runs of
// regionless line references are replaced by freshly allocated merged
// regions, everything else resolves to the document's regions.
type ReadingOrder struct {
	paths   []model.Path
	regions []region.Region
}

// Paths returns the ordered block paths, merged substitutions included.
func (ro *ReadingOrder) Paths() []model.Path { return ro.paths }

// Regions returns the ordered regions, parallel to Paths.
func (ro *ReadingOrder) Regions() []region.Region { return ro.regions }

// ReconstructOrder walks the document's raw reading order. Block paths
// resolve through the registry (silently skipped when legitimately empty);
// consecutive line paths sharing a block prefix accumulate into one merged
// region flushed with a never-before-used block index for its namespace and
// class.
func ReconstructOrder(d *Document) (*ReadingOrder, error) {
	indices := make(map[model.Group]int)
	for _, p := range d.Paths() {
		idx, err := strconv.Atoi(p.BaseID())
		if err != nil {
			return nil, fmt.Errorf("non-numeric block id in region path %s", p)
		}
		if idx > indices[p.Group()] {
			indices[p.Group()] = idx
		}
	}

	ro := &ReadingOrder{}
	var pending []model.Path

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		group := pending[0].Group()
		entries := make([]region.MergedLine, 0, len(pending))
		for _, p := range pending {
			line, ok := d.lines[p]
			if !ok {
				return fmt.Errorf("reading order references unknown line %s", p)
			}
			text, _ := d.LineText(p)
			entries = append(entries, region.MergedLine{Path: p, Line: line, Text: text})
		}
		newIndex := indices[group] + 1
		indices[group] = newIndex
		newPath := model.Path{Namespace: group.Namespace, Class: group.Class, ID: strconv.Itoa(newIndex)}
		merged, err := region.NewMerged(newPath, entries, d.transform)
		if err != nil {
			return err
		}
		ro.paths = append(ro.paths, newPath)
		ro.regions = append(ro.regions, merged)
		pending = pending[:0]
		return nil
	}

	for _, p := range d.Order() {
		if !p.IsLine() {
			if err := flush(); err != nil {
				return nil, err
			}
			r, err := d.Get(p)
			if err != nil {
				return nil, err
			}
			if r != nil {
				ro.paths = append(ro.paths, p)
				ro.regions = append(ro.regions, r)
			}
			continue
		}

		if p.Group() != (model.Group{Namespace: model.NamespaceRegions, Class: model.ClassText}) {
			return nil, fmt.Errorf("unexpected line path %s in reading order", p)
		}
		// Lines that kept their original block prefix stay in the same
		// run; anything else starts a new merged region.
		if len(pending) > 0 && pending[len(pending)-1].BlockPath() != p.BlockPath() {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		pending = append(pending, p)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return ro, nil
}
