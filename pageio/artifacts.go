package pageio

import (
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "golang.org/x/image/tiff"

	"github.com/scantext/folio/compose"
	"github.com/scantext/folio/geometry"
	"github.com/scantext/folio/model"
)

// ErrNoArtifacts is returned when a page directory has no block geometry at
// all. Such pages are a legitimate early exit, not a failure.
var ErrNoArtifacts = errors.New("page has no region artifacts")

type jsonPoint [2]float64

type regionsFile struct {
	Blocks []struct {
		Path    string      `json:"path"`
		Polygon []jsonPoint `json:"polygon"`
	} `json:"blocks"`
}

type linesFile struct {
	Lines []struct {
		Path       string      `json:"path"`
		Polygon    []jsonPoint `json:"polygon"`
		Confidence float64     `json:"confidence"`
		Predicted  string      `json:"predicted,omitempty"`
	} `json:"lines"`
}

type ocrFile struct {
	Texts []struct {
		Path string `json:"path"`
		Text string `json:"text"`
	} `json:"texts"`
}

type orderFile struct {
	Orders map[string][]string `json:"orders"`
}

type gridFile struct {
	Step   float64       `json:"step"`
	Points [][]jsonPoint `json:"points"`
}

type pageFile struct {
	Image  string `json:"image,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// LoadPage reads one page directory into a compose input. The caller sets
// the confidence threshold; everything else comes from the artifacts.
func LoadPage(dir string) (compose.Input, error) {
	in := compose.Input{PagePath: dir}

	var regions regionsFile
	if err := readJSON(filepath.Join(dir, "regions.json"), &regions); err != nil {
		return in, noArtifacts(err, dir)
	}
	in.Blocks = make(map[model.Path]model.Block, len(regions.Blocks))
	for _, b := range regions.Blocks {
		p, err := model.ParsePath(b.Path)
		if err != nil {
			return in, errors.Wrapf(err, "regions.json in %s", dir)
		}
		poly, err := polygonFromJSON(b.Polygon)
		if err != nil {
			return in, errors.Wrapf(err, "block %s in %s", b.Path, dir)
		}
		in.Blocks[p] = model.Block{Polygon: poly}
	}
	if len(in.Blocks) == 0 {
		return in, errors.Wrapf(ErrNoArtifacts, "page %s", dir)
	}

	var lines linesFile
	if err := readJSON(filepath.Join(dir, "lines.json"), &lines); err != nil {
		return in, noArtifacts(err, dir)
	}
	in.Lines = make(map[model.Path]model.Line, len(lines.Lines))
	for _, l := range lines.Lines {
		p, err := model.ParsePath(l.Path)
		if err != nil {
			return in, errors.Wrapf(err, "lines.json in %s", dir)
		}
		poly, err := polygonFromJSON(l.Polygon)
		if err != nil {
			return in, errors.Wrapf(err, "line %s in %s", l.Path, dir)
		}
		line := model.Line{Polygon: poly, Confidence: l.Confidence}
		if l.Predicted != "" {
			if line.Predicted, err = model.ParsePath(l.Predicted); err != nil {
				return in, errors.Wrapf(err, "line %s in %s", l.Path, dir)
			}
		}
		in.Lines[p] = line
	}

	var ocr ocrFile
	if err := readJSON(filepath.Join(dir, "ocr.json"), &ocr); err != nil {
		return in, noArtifacts(err, dir)
	}
	in.OCR = make([]compose.OCRText, 0, len(ocr.Texts))
	for _, t := range ocr.Texts {
		p, err := model.ParsePath(t.Path)
		if err != nil {
			return in, errors.Wrapf(err, "ocr.json in %s", dir)
		}
		in.OCR = append(in.OCR, compose.OCRText{Path: p, Text: t.Text})
	}

	var order orderFile
	if err := readJSON(filepath.Join(dir, "order.json"), &order); err != nil {
		return in, noArtifacts(err, dir)
	}
	for _, s := range order.Orders["*"] {
		p, err := model.ParsePath(s)
		if err != nil {
			return in, errors.Wrapf(err, "order.json in %s", dir)
		}
		in.Order = append(in.Order, p)
	}

	page, err := loadPage(dir)
	if err != nil {
		return in, err
	}
	in.Page = page
	return in, nil
}

func loadPage(dir string) (model.Page, error) {
	page := model.Page{Grid: geometry.Identity{}}

	var meta pageFile
	if err := readJSON(filepath.Join(dir, "page.json"), &meta); err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return page, err
		}
	}
	page.Width, page.Height = meta.Width, meta.Height
	if page.Width <= 0 || page.Height <= 0 {
		candidates := []string{meta.Image, "page.png", "page.tif", "page.jpg"}
		found := false
		for _, name := range candidates {
			if name == "" {
				continue
			}
			w, h, err := imageSize(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			page.Width, page.Height, found = w, h, true
			break
		}
		if !found {
			return page, errors.Errorf("page %s: no usable page size (page.json or page image required)", dir)
		}
	}

	gridPath := filepath.Join(dir, "grid.json")
	var grid gridFile
	if err := readJSON(gridPath, &grid); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return page, nil
		}
		return page, err
	}
	points := make([][]geometry.Point, len(grid.Points))
	for r, row := range grid.Points {
		points[r] = make([]geometry.Point, len(row))
		for c, pt := range row {
			points[r][c] = geometry.Point{X: pt[0], Y: pt[1]}
		}
	}
	mesh, err := geometry.NewMesh(grid.Step, points)
	if err != nil {
		return page, errors.Wrapf(err, "grid.json in %s", dir)
	}
	page.Grid = mesh
	return page, nil
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "probe image %s", path)
	}
	return cfg.Width, cfg.Height, nil
}

func polygonFromJSON(pts []jsonPoint) (geometry.Polygon, error) {
	points := make([]geometry.Point, len(pts))
	for i, p := range pts {
		points[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return geometry.FromPoints(points)
}

// noArtifacts converts a missing-file error into the ErrNoArtifacts skip
// signal; anything else stays a hard failure.
func noArtifacts(err error, dir string) error {
	if os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(ErrNoArtifacts, "page %s", dir)
	}
	return err
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open artifact")
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
