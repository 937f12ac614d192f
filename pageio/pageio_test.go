package pageio

import (
	"archive/zip"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writePageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeArtifact(t, dir, "regions.json",
		`{"blocks":[{"path":"regions/TEXT/0","polygon":[[10,10],[90,10],[90,50],[10,50]]}]}`)
	writeArtifact(t, dir, "lines.json",
		`{"lines":[{"path":"regions/TEXT/0/0","polygon":[[12,12],[88,12],[88,28],[12,28]],"confidence":0.9}]}`)
	writeArtifact(t, dir, "ocr.json",
		`{"texts":[{"path":"regions/TEXT/0/0","text":"Hello"}]}`)
	writeArtifact(t, dir, "order.json",
		`{"orders":{"*":["regions/TEXT/0"]}}`)
	writeArtifact(t, dir, "page.json", `{"width":200,"height":100}`)
	return dir
}

func TestLoadPage(t *testing.T) {
	dir := writePageDir(t)
	writeArtifact(t, dir, "grid.json",
		`{"step":100,"points":[[[0,0],[100,0]],[[0,100],[100,100]]]}`)

	in, err := LoadPage(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, in.PagePath)
	assert.Equal(t, 200, in.Page.Width)
	assert.Equal(t, 100, in.Page.Height)
	assert.IsType(t, &geometry.Mesh{}, in.Page.Grid)

	require.Len(t, in.Blocks, 1)
	block, ok := in.Blocks[model.MustParsePath("regions/TEXT/0")]
	require.True(t, ok)
	assert.False(t, block.Polygon.IsEmpty())

	require.Len(t, in.Lines, 1)
	line := in.Lines[model.MustParsePath("regions/TEXT/0/0")]
	assert.Equal(t, 0.9, line.Confidence)

	require.Len(t, in.OCR, 1)
	assert.Equal(t, "Hello", in.OCR[0].Text)

	require.Len(t, in.Order, 1)
	assert.Equal(t, "regions/TEXT/0", in.Order[0].String())
}

func TestLoadPageWithoutGrid(t *testing.T) {
	in, err := LoadPage(writePageDir(t))
	require.NoError(t, err)
	assert.IsType(t, geometry.Identity{}, in.Page.Grid)
}

func TestLoadPageSizeFromImage(t *testing.T) {
	dir := writePageDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "page.json")))

	f, err := os.Create(filepath.Join(dir, "page.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, f.Close())

	in, err := LoadPage(dir)
	require.NoError(t, err)
	assert.Equal(t, 40, in.Page.Width)
	assert.Equal(t, 30, in.Page.Height)
}

func TestLoadPageWithoutSizeFails(t *testing.T) {
	dir := writePageDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "page.json")))

	_, err := LoadPage(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size")
}

func TestLoadPageNoArtifacts(t *testing.T) {
	_, err := LoadPage(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoArtifacts))
}

func TestLoadPageEmptyRegions(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "regions.json", `{"blocks":[]}`)

	_, err := LoadPage(dir)
	assert.True(t, errors.Is(err, ErrNoArtifacts))
}

func TestLoadPageMissingLines(t *testing.T) {
	dir := writePageDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "lines.json")))

	_, err := LoadPage(dir)
	assert.True(t, errors.Is(err, ErrNoArtifacts))
}

func TestLoadPageRejectsMalformedPath(t *testing.T) {
	dir := writePageDir(t)
	writeArtifact(t, dir, "regions.json",
		`{"blocks":[{"path":"nonsense","polygon":[[0,0],[1,0],[1,1]]}]}`)

	_, err := LoadPage(dir)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoArtifacts))
}

func readZipEntry(t *testing.T, r *zip.ReadCloser, name string) string {
	t.Helper()
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("entry %s not in archive", name)
	return ""
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.compose.zip")

	require.NoError(t, WriteArchive(path, []byte("Hello\n"), []byte("<xml/>")))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 2)
	assert.Equal(t, "Hello\n", readZipEntry(t, r, "page.txt"))
	assert.Equal(t, "<xml/>", readZipEntry(t, r, "page.xml"))

	// The temporary file used for the atomic write must be gone.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteArchiveWithoutPageXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.compose.zip")

	require.NoError(t, WriteArchive(path, []byte("text"), nil))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1)
	assert.Equal(t, "page.txt", r.File[0].Name)
}
