package region

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
	"github.com/scantext/folio/pagexml"
)

type cellText struct {
	path model.Path
	text string
}

// Table is a region built from every spatial sub-block sharing one table's
// base block path. Columns are the outermost grouping, divisions nest
// inside columns and rows nest inside divisions; cells are the leaves.
type Table struct {
	path      model.Path
	cells     map[model.GridCell]geometry.Polygon
	lines     map[model.Path]model.Line
	divisions map[int]bool
	rows      map[int]map[int]bool
	columns   map[int]bool
	texts     map[model.GridCell][]cellText
	transform Transform
	log       *zap.Logger
}

// NewTable creates a table region from the detected cell sub-blocks.
func NewTable(path model.Path, cells map[model.GridCell]geometry.Polygon,
	lines map[model.Path]model.Line, tf Transform, log *zap.Logger) *Table {
	return &Table{
		path:      path,
		cells:     cells,
		lines:     lines,
		divisions: make(map[int]bool),
		rows:      make(map[int]map[int]bool),
		columns:   make(map[int]bool),
		texts:     make(map[model.GridCell][]cellText),
		transform: tf,
		log:       log,
	}
}

// Path returns the table's base block path.
func (t *Table) Path() model.Path { return t.path }

// AppendCellText routes one recognized line into its grid cell, recording
// the observed division, row and column.
func (t *Table) AppendCellText(cell model.GridCell, line model.Path, text string) {
	t.divisions[cell.Division] = true
	if t.rows[cell.Division] == nil {
		t.rows[cell.Division] = make(map[int]bool)
	}
	t.rows[cell.Division][cell.Row] = true
	t.columns[cell.Column] = true
	t.texts[cell] = append(t.texts[cell], cellText{path: line, text: text})
}

// ExportPlainTextRegion emits the rendered table as one fragment.
func (t *Table) ExportPlainTextRegion(sink TextSink) {
	sink.AppendText(t.path, t.ToText())
}

// ExportPlainTextLine is not supported: table lines are addressed through
// their grid cell, never individually.
func (t *Table) ExportPlainTextLine(TextSink, model.Path) error {
	return fmt.Errorf("table region %s does not export individual lines", t.path)
}

// ExportPageXML walks columns, divisions and rows in ascending numeric
// order. A parent outline is the union of its non-empty children, computed
// bottom-up and prepended so consumers see the bounding outline before the
// children. Empty divisions and columns are pruned; a table with zero
// renderable columns is logged and omitted entirely.
func (t *Table) ExportPageXML(px *pagexml.Document) error {
	tableID := t.path.RegionID()
	pxTable := px.AppendRegion(pagexml.KindTable, tableID)

	columns := sortedKeys(t.columns)
	divisions := sortedKeys(t.divisions)
	var columnShapes []geometry.Polygon

	for _, column := range columns {
		columnID := fmt.Sprintf("%s.%d", tableID, column)
		pxColumn := pxTable.AppendTextRegion(columnID)
		var divisionShapes []geometry.Polygon

		for _, division := range divisions {
			divisionID := fmt.Sprintf("%s.%d", columnID, division)
			pxDivision := pxColumn.AppendTextRegion(divisionID)
			var cellShapes []geometry.Polygon

			for _, row := range sortedKeys(t.rows[division]) {
				cell := model.GridCell{Division: division, Row: row, Column: column}
				shape, err := t.exportCell(pxDivision, divisionID, cell)
				if err != nil {
					return err
				}
				if !shape.IsEmpty() {
					cellShapes = append(cellShapes, shape)
				}
			}

			shape, err := t.prependUnion(pxDivision, cellShapes)
			if err != nil {
				return fmt.Errorf("table %s division %d: %w", t.path, division, err)
			}
			if shape.IsEmpty() {
				pxColumn.Remove(pxDivision)
				continue
			}
			divisionShapes = append(divisionShapes, shape)
		}

		shape, err := t.prependUnion(pxColumn, divisionShapes)
		if err != nil {
			return fmt.Errorf("table %s column %d: %w", t.path, column, err)
		}
		if shape.IsEmpty() {
			pxTable.Remove(pxColumn)
			continue
		}
		columnShapes = append(columnShapes, shape)
	}

	shape, err := t.prependUnion(pxTable, columnShapes)
	if err != nil {
		return fmt.Errorf("table %s: %w", t.path, err)
	}
	if shape.IsEmpty() {
		t.log.Warn("table was empty, omitting from structured output",
			zap.String("block", t.path.String()))
		px.Remove(pxTable)
	}
	return nil
}

// exportCell emits one cell and its lines. The returned shape is the cell's
// analysis-space polygon, or empty when the cell is not renderable.
func (t *Table) exportCell(pxDivision *pagexml.Region, divisionID string, cell model.GridCell) (geometry.Polygon, error) {
	poly, ok := t.cells[cell]
	if !ok || poly.IsEmpty() {
		return geometry.Empty(), nil
	}
	outline, err := t.transform(poly)
	if err != nil {
		return geometry.Empty(), fmt.Errorf("table %s cell %v: %w", t.path, cell, err)
	}
	if outline.IsEmpty() {
		for _, entry := range t.texts[cell] {
			if strings.TrimSpace(entry.text) != "" {
				return geometry.Empty(), fmt.Errorf(
					"table %s cell %v has text %q but no geometry inside the page box",
					t.path, cell, entry.text)
			}
		}
		return geometry.Empty(), nil
	}

	cellID := fmt.Sprintf("%s.%d", divisionID, cell.Row)
	pxCell := pxDivision.AppendTextRegion(cellID)
	pxCell.AppendCoords(outline.ExteriorPoints())

	for _, entry := range t.texts[cell] {
		line, held := t.lines[entry.path]
		if !held {
			return geometry.Empty(), fmt.Errorf("table %s holds text for unknown line %s", t.path, entry.path)
		}
		shape, err := t.transform(line.Polygon)
		if err != nil {
			return geometry.Empty(), fmt.Errorf("line %s: %w", entry.path, err)
		}
		if shape.IsEmpty() {
			if strings.TrimSpace(entry.text) != "" {
				return geometry.Empty(), fmt.Errorf(
					"line %s has text %q, confidence %.2f, but empty geometry",
					entry.path, entry.text, line.Confidence)
			}
			continue
		}
		pxLine := pxCell.AppendTextLine(entry.path.RegionID())
		pxLine.AppendCoords(shape.ExteriorPoints())
		pxLine.AppendTextEquiv(entry.text)
	}
	return poly, nil
}

// prependUnion computes the union outline of child shapes and prepends it
// to the parent element. It returns the analysis-space union, empty when
// there is nothing to render.
func (t *Table) prependUnion(parent *pagexml.Region, shapes []geometry.Polygon) (geometry.Polygon, error) {
	if len(shapes) == 0 {
		return geometry.Empty(), nil
	}
	union, err := geometry.Union(shapes)
	if err != nil {
		return geometry.Empty(), err
	}
	outline, err := t.transform(union)
	if err != nil {
		return geometry.Empty(), err
	}
	if outline.IsEmpty() {
		return geometry.Empty(), nil
	}
	parent.PrependCoords(outline.ExteriorPoints())
	return union, nil
}

// ToText renders the table for the plain-text export. Single-column tables
// degrade to a newline-joined line list. The first row acts as a header
// only when the first division holds exactly that one row and at least one
// further division follows.
func (t *Table) ToText() string {
	columns := sortedKeys(t.columns)
	divisions := sortedKeys(t.divisions)

	var tableData [][]string
	var nRows []int
	for _, division := range divisions {
		rows := sortedKeys(t.rows[division])
		nRows = append(nRows, len(rows))
		for _, row := range rows {
			rowData := make([]string, 0, len(columns))
			for _, column := range columns {
				cell := model.GridCell{Division: division, Row: row, Column: column}
				texts := make([]string, 0, len(t.texts[cell]))
				for _, entry := range t.texts[cell] {
					texts = append(texts, strings.TrimSpace(entry.text))
				}
				rowData = append(rowData, strings.Join(texts, "\n"))
			}
			tableData = append(tableData, rowData)
		}
	}

	if len(columns) == 1 {
		lines := make([]string, 0, len(tableData))
		for _, row := range tableData {
			lines = append(lines, strings.Join(row, ""))
		}
		return strings.Join(lines, "\n")
	}

	var buf bytes.Buffer
	w := tablewriter.NewWriter(&buf)
	w.SetAutoFormatHeaders(false)
	w.SetAutoWrapText(false)
	if len(nRows) >= 2 && nRows[0] == 1 {
		w.SetHeader(tableData[0])
		tableData = tableData[1:]
	}
	for _, row := range tableData {
		w.Append(row)
	}
	w.Render()
	return buf.String()
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
