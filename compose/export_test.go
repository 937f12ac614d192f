package compose

import (
	"strings"
	"testing"

	"github.com/scantext/folio/model"
)

func TestExportPlainText(t *testing.T) {
	d, err := NewDocument(testInput(t), nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	text, err := d.ExportPlainText(nil, "\n")
	if err != nil {
		t.Fatalf("ExportPlainText: %v", err)
	}

	// The two lines of regions/TEXT/0 come first, then a block separator,
	// then the rendered table. The illustration and the empty block
	// contribute nothing.
	if !strings.HasPrefix(text, "Hello\nWorld\n\n") {
		t.Errorf("unexpected prefix: %q", text)
	}
	if !strings.Contains(text, "left") || !strings.Contains(text, "right") {
		t.Errorf("table content missing: %q", text)
	}
}

func TestExportPlainTextWithFilter(t *testing.T) {
	d, err := NewDocument(testInput(t), nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	filter, err := ParseFilter("regions/TEXT")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	text, err := d.ExportPlainText(filter, "\n")
	if err != nil {
		t.Fatalf("ExportPlainText: %v", err)
	}

	if text != "Hello\nWorld\n" {
		t.Errorf("filtered text = %q, want %q", text, "Hello\nWorld\n")
	}
}

func TestExportPlainTextLineEntries(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{
		model.MustParsePath("regions/TEXT/0/1"),
		model.MustParsePath("regions/TEXT/0/0"),
	}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	text, err := d.ExportPlainText(nil, "\n")
	if err != nil {
		t.Fatalf("ExportPlainText: %v", err)
	}
	if text != "World\nHello\n" {
		t.Errorf("line-addressed text = %q, want %q", text, "World\nHello\n")
	}
}

func TestExportPageXML(t *testing.T) {
	d, err := NewDocument(testInput(t), nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	data, err := d.ExportPageXML()
	if err != nil {
		t.Fatalf("ExportPageXML: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`imageFilename="test/page"`,
		`<RegionRefIndexed index="0" regionRef="regions-TEXT-0"`,
		`<RegionRefIndexed index="1" regionRef="regions-TABULAR-2"`,
		`<RegionRefIndexed index="2" regionRef="regions-ILLUSTRATION-3"`,
		`<TableRegion id="regions-TABULAR-2"`,
		`<TextRegion id="regions-TABULAR-2.0.0.0"`,
		"<Unicode>Hello</Unicode>",
		"<Unicode>right</Unicode>",
		"<GraphicRegion",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(s, `regionRef="regions-TEXT-1"`) {
		t.Error("empty block must not appear in the reading order")
	}
}

func TestExportPageXMLMergedRun(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{
		model.MustParsePath("regions/TEXT/0"),
		model.MustParsePath("regions/TEXT/7/0"),
		model.MustParsePath("regions/TEXT/7/1"),
	}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	data, err := d.ExportPageXML()
	if err != nil {
		t.Fatalf("ExportPageXML: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `<RegionRefIndexed index="1" regionRef="regions-TEXT-1"`) {
		t.Errorf("merged region missing from reading order:\n%s", s)
	}
	if !strings.Contains(s, `<TextLine id="regions-TEXT-1-0"`) {
		t.Errorf("merged member lines missing:\n%s", s)
	}
}

func TestExportPageXMLOmitsEmptyTable(t *testing.T) {
	in := testInput(t)
	// Push the table cells outside the page box; their texts are blank so
	// the table prunes away instead of failing.
	in.Blocks[model.MustParsePath("regions/TABULAR/2.0.0.0")] = model.Block{Polygon: rect(t, 300, 300, 340, 330)}
	in.Blocks[model.MustParsePath("regions/TABULAR/2.0.0.1")] = model.Block{Polygon: rect(t, 345, 300, 385, 330)}
	in.Lines[model.MustParsePath("regions/TABULAR/2.0.0.0/0")] = model.Line{Polygon: rect(t, 302, 302, 338, 328), Confidence: 0.9}
	in.Lines[model.MustParsePath("regions/TABULAR/2.0.0.1/0")] = model.Line{Polygon: rect(t, 347, 302, 383, 328), Confidence: 0.9}
	for i := range in.OCR {
		if in.OCR[i].Path.Namespace == model.NamespaceRegions && in.OCR[i].Path.Class == model.ClassTabular {
			in.OCR[i].Text = "   "
		}
	}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	data, err := d.ExportPageXML()
	if err != nil {
		t.Fatalf("ExportPageXML: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "TableRegion") {
		t.Errorf("empty table should be omitted:\n%s", s)
	}
	if strings.Contains(s, `regionRef="regions-TABULAR-2"`) {
		t.Errorf("omitted table still referenced in reading order:\n%s", s)
	}
	if !strings.Contains(s, `<RegionRefIndexed index="1" regionRef="regions-ILLUSTRATION-3"`) {
		t.Errorf("surviving references not reindexed:\n%s", s)
	}
}
