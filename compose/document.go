package compose

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/region"
)

// OCRText is one recognized line in upstream emission order.
type OCRText struct {
	Path model.Path
	Text string
}

// Input holds the fully materialized artifacts for one page.
type Input struct {
	// PagePath identifies the page in diagnostics and output metadata.
	PagePath string
	Page     model.Page
	// Blocks maps block paths (table cells keep their dotted grid id) to
	// detected geometry.
	Blocks map[model.Path]model.Block
	// Lines maps line paths to detected geometry and confidence.
	Lines map[model.Path]model.Line
	// OCR lists recognized texts in emission order; within-region line
	// order is taken from it without any secondary sort.
	OCR []OCRText
	// Order is the externally supplied reading order.
	Order []model.Path
	// MinConfidence is the pipeline-wide confidence threshold.
	MinConfidence float64
}

// Document is the owning aggregate for one page: the region registry, the
// raw line and text tables, the reading order and the coordinate transform.
// It is immutable once built.
type Document struct {
	pagePath      string
	page          model.Page
	minConfidence float64
	transform     region.Transform

	mapping     map[model.Path][]model.Path
	regionLines map[model.Path][]model.Path
	lines       map[model.Path]model.Line
	texts       map[model.Path]string

	regions map[model.Path]region.Region
	order   []model.Path
	paths   []model.Path

	log *zap.Logger
}

// NewDocument builds the populated region set for one page. Lines are
// ingested in OCR emission order; illustration blocks become graphic
// regions eagerly afterwards.
func NewDocument(in Input, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{
		pagePath:      in.PagePath,
		page:          in.Page,
		minConfidence: in.MinConfidence,
		mapping:       make(map[model.Path][]model.Path),
		regionLines:   make(map[model.Path][]model.Path),
		lines:         in.Lines,
		texts:         make(map[model.Path]string),
		regions:       make(map[model.Path]region.Region),
		order:         in.Order,
		log:           log,
	}
	d.transform = func(p geometry.Polygon) (geometry.Polygon, error) {
		return d.page.Rewarp(p)
	}

	blocks := make(map[model.Path]model.Block, len(in.Blocks))
	blockPaths := make([]model.Path, 0, len(in.Blocks))
	for p, b := range in.Blocks {
		blocks[p] = b
		blockPaths = append(blockPaths, p)
	}
	sort.Slice(blockPaths, func(i, j int) bool { return blockPaths[i].Less(blockPaths[j]) })

	// Combine table cell sub-blocks under their base block path; plain
	// blocks map to themselves.
	for _, p := range blockPaths {
		base := model.Path{Namespace: p.Namespace, Class: p.Class, ID: p.BaseID()}
		d.mapping[base] = append(d.mapping[base], p)
	}
	for p := range in.Lines {
		d.regionLines[p.BlockPath()] = append(d.regionLines[p.BlockPath()], p)
	}

	for _, entry := range in.OCR {
		if !entry.Path.IsLine() {
			return nil, fmt.Errorf("recognized text keyed by block path %s", entry.Path)
		}
		d.texts[entry.Path] = entry.Text
		blockPath := entry.Path.BlockPath()

		if base, cell, ok := blockPath.TableCell(); ok {
			if blockPath.Group() != (model.Group{Namespace: model.NamespaceRegions, Class: model.ClassTabular}) {
				return nil, fmt.Errorf("grid coordinates on non-table block %s", blockPath)
			}
			table, err := d.addTable(base, blocks)
			if err != nil {
				return nil, err
			}
			table.AppendCellText(cell, entry.Path, entry.Text)
			continue
		}

		if blockPath.Group() != (model.Group{Namespace: model.NamespaceRegions, Class: model.ClassText}) {
			return nil, fmt.Errorf("recognized text in unexpected block %s", blockPath)
		}
		text, err := d.addText(blockPath, blocks)
		if err != nil {
			return nil, err
		}
		if err := text.AddText(entry.Path, entry.Text); err != nil {
			return nil, err
		}
	}

	for _, p := range blockPaths {
		if p.Group() == (model.Group{Namespace: model.NamespaceRegions, Class: model.ClassIllustration}) {
			d.regions[p] = region.NewGraphic(p, blocks[p].Polygon, d.transform)
		}
	}

	d.paths = make([]model.Path, 0, len(d.regions))
	for p := range d.regions {
		d.paths = append(d.paths, p)
	}
	sort.Slice(d.paths, func(i, j int) bool { return d.paths[i].Less(d.paths[j]) })

	return d, nil
}

func (d *Document) addText(path model.Path, blocks map[model.Path]model.Block) (*region.Text, error) {
	if existing, ok := d.regions[path]; ok {
		text, isText := existing.(*region.Text)
		if !isText {
			return nil, fmt.Errorf("block %s already registered as a different region kind", path)
		}
		return text, nil
	}
	subPaths, lines, err := d.blocksAndLines(path)
	if err != nil {
		return nil, err
	}
	if len(subPaths) != 1 {
		return nil, fmt.Errorf("text block %s maps to %d spatial blocks, want 1", path, len(subPaths))
	}
	text := region.NewText(path, blocks[subPaths[0]].Polygon, lines, d.transform)
	d.regions[path] = text
	return text, nil
}

func (d *Document) addTable(base model.Path, blocks map[model.Path]model.Block) (*region.Table, error) {
	if existing, ok := d.regions[base]; ok {
		table, isTable := existing.(*region.Table)
		if !isTable {
			return nil, fmt.Errorf("block %s already registered as a different region kind", base)
		}
		return table, nil
	}
	subPaths, lines, err := d.blocksAndLines(base)
	if err != nil {
		return nil, err
	}
	cells := make(map[model.GridCell]geometry.Polygon, len(subPaths))
	for _, sub := range subPaths {
		_, cell, ok := sub.TableCell()
		if !ok {
			return nil, fmt.Errorf("table %s has sub-block %s without grid coordinates", base, sub)
		}
		cells[cell] = blocks[sub].Polygon
	}
	table := region.NewTable(base, cells, lines, d.transform, d.log)
	d.regions[base] = table
	return table, nil
}

// blocksAndLines resolves a base block path to its spatial sub-blocks and
// all lines filed under them.
func (d *Document) blocksAndLines(base model.Path) ([]model.Path, map[model.Path]model.Line, error) {
	subPaths, ok := d.mapping[base]
	if !ok {
		return nil, nil, fmt.Errorf("no detected geometry for block %s", base)
	}
	lines := make(map[model.Path]model.Line)
	for _, sub := range subPaths {
		for _, linePath := range d.regionLines[sub] {
			lines[linePath] = d.lines[linePath]
		}
	}
	return subPaths, lines, nil
}

// Get returns the region for a block path. A nil region with a nil error
// means the block is legitimately empty: every line observed under it fell
// below the confidence threshold. Above-threshold evidence without a region
// is an upstream bug and reported as an error.
func (d *Document) Get(blockPath model.Path) (region.Region, error) {
	if r, ok := d.regions[blockPath]; ok {
		return r, nil
	}
	linePaths := d.regionLines[blockPath]
	confident := false
	confidences := make([]string, 0, len(linePaths))
	for _, p := range linePaths {
		c := d.lines[p].Confidence
		confidences = append(confidences, fmt.Sprintf("%.2f", c))
		if c >= d.minConfidence {
			confident = true
		}
	}
	if !confident {
		return nil, nil
	}
	return nil, fmt.Errorf("no text found for %s, line confidences are: %s",
		blockPath, strings.Join(confidences, ", "))
}

// LineText returns the recognized text ingested for a line path.
func (d *Document) LineText(line model.Path) (string, bool) {
	s, ok := d.texts[line]
	return s, ok
}

// PagePath returns the page identifier.
func (d *Document) PagePath() string { return d.pagePath }

// Page returns the page size and dewarper.
func (d *Document) Page() model.Page { return d.page }

// Order returns the raw reading order.
func (d *Document) Order() []model.Path { return d.order }

// Paths returns the sorted block paths of all created regions.
func (d *Document) Paths() []model.Path { return d.paths }
