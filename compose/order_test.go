package compose

import (
	"strings"
	"testing"

	"github.com/scantext/folio/model"
)

func pathStrings(paths []model.Path) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.String())
	}
	return out
}

func TestReconstructOrderResolvesBlocks(t *testing.T) {
	d, err := NewDocument(testInput(t), nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	ro, err := ReconstructOrder(d)
	if err != nil {
		t.Fatalf("ReconstructOrder: %v", err)
	}

	// regions/TEXT/1 is legitimately empty and drops out.
	want := []string{"regions/TEXT/0", "regions/TABULAR/2", "regions/ILLUSTRATION/3"}
	got := pathStrings(ro.Paths())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("reconstructed order = %v, want %v", got, want)
	}
	if len(ro.Regions()) != len(ro.Paths()) {
		t.Errorf("regions and paths diverge: %d vs %d", len(ro.Regions()), len(ro.Paths()))
	}
}

func TestReconstructOrderMergesLineRun(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{
		model.MustParsePath("regions/TEXT/7/0"),
		model.MustParsePath("regions/TEXT/7/1"),
		model.MustParsePath("regions/TEXT/0"),
	}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	ro, err := ReconstructOrder(d)
	if err != nil {
		t.Fatalf("ReconstructOrder: %v", err)
	}

	// The highest existing TEXT block index is 0, so the merged region
	// claims index 1.
	want := []string{"regions/TEXT/1", "regions/TEXT/0"}
	got := pathStrings(ro.Paths())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("reconstructed order = %v, want %v", got, want)
	}
}

func TestReconstructOrderFlushesOnPrefixChange(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{
		model.MustParsePath("regions/TEXT/7/0"),
		model.MustParsePath("regions/TEXT/8/0"),
	}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	ro, err := ReconstructOrder(d)
	if err != nil {
		t.Fatalf("ReconstructOrder: %v", err)
	}

	want := []string{"regions/TEXT/1", "regions/TEXT/2"}
	got := pathStrings(ro.Paths())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("reconstructed order = %v, want %v", got, want)
	}
}

func TestReconstructOrderRejectsForeignLinePath(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{model.MustParsePath("regions/TABULAR/2.0.0.0/0")}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	if _, err := ReconstructOrder(d); err == nil {
		t.Error("expected error for a non-text line path in the reading order")
	}
}

func TestReconstructOrderRejectsUnknownLine(t *testing.T) {
	in := testInput(t)
	in.Order = []model.Path{model.MustParsePath("regions/TEXT/42/0")}
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	_, err = ReconstructOrder(d)
	if err == nil {
		t.Fatal("expected error for a reading-order line without geometry")
	}
	if !strings.Contains(err.Error(), "unknown line") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReconstructOrderRejectsNonNumericBlockID(t *testing.T) {
	in := testInput(t)
	in.Blocks[model.MustParsePath("regions/TEXT/extra")] = model.Block{Polygon: rect(t, 110, 110, 150, 130)}
	in.Lines[model.MustParsePath("regions/TEXT/extra/0")] = model.Line{Polygon: rect(t, 112, 112, 148, 128), Confidence: 0.9}
	in.OCR = append(in.OCR, OCRText{Path: model.MustParsePath("regions/TEXT/extra/0"), Text: "x"})
	d, err := NewDocument(in, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	if _, err := ReconstructOrder(d); err == nil {
		t.Error("expected error for a non-numeric block id")
	}
}
