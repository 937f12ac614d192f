package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scantext/folio/compose"
	"github.com/scantext/folio/pageio"
	"github.com/scantext/folio/pagexml"
)

// Options configures page composition.
type Options struct {
	// Paragraph is the escape-encoded block separator for plain text,
	// e.g. `\n\n`.
	Paragraph string
	// Regions optionally restricts plain-text export to the given
	// path prefixes (semicolon separated). Structured export is never
	// filtered.
	Regions string
	// PageXML enables the structured export.
	PageXML bool
	// MinConfidence is the pipeline-wide line confidence threshold.
	MinConfidence float64
	// Jobs bounds page-level parallelism; 0 means one worker per CPU.
	Jobs int
}

// DefaultOptions returns the standard composition options.
func DefaultOptions() Options {
	return Options{
		Paragraph:     `\n\n`,
		MinConfidence: 0.5,
	}
}

// Processor composes all pages under a data directory.
type Processor struct {
	opts      Options
	separator string
	filter    *compose.Filter
	log       *zap.Logger
}

// New creates a processor, decoding the paragraph separator and parsing the
// region filter.
func New(opts Options, log *zap.Logger) (*Processor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	separator, err := unescape(opts.Paragraph)
	if err != nil {
		return nil, errors.Wrapf(err, "paragraph separator %q", opts.Paragraph)
	}
	p := &Processor{opts: opts, separator: separator, log: log}
	if opts.Regions != "" {
		if p.filter, err = compose.ParseFilter(opts.Regions); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Traverse composes every page directory under dataPath. Pages run
// concurrently; failed pages are logged and counted, and an error is
// returned at the end when any page failed.
func (p *Processor) Traverse(ctx context.Context, dataPath string) error {
	pages, err := discoverPages(dataPath)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		p.log.Info("no page directories found", zap.String("path", dataPath))
		return nil
	}

	jobs := p.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, dir := range pages {
		dir := dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.ProcessPage(dir); err != nil {
				failed.Add(1)
				p.log.Error("page failed", zap.String("page", dir), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return errors.Errorf("%d of %d pages failed", n, len(pages))
	}
	return nil
}

// ProcessPage composes a single page directory into <dir>.compose.zip. A
// page without artifacts is skipped silently; a structured export that
// fails validation is dropped while the plain text is still written.
func (p *Processor) ProcessPage(dir string) error {
	in, err := pageio.LoadPage(dir)
	if err != nil {
		if errors.Is(err, pageio.ErrNoArtifacts) {
			p.log.Debug("skipping page without artifacts", zap.String("page", dir))
			return nil
		}
		return err
	}
	in.MinConfidence = p.opts.MinConfidence

	doc, err := compose.NewDocument(in, p.log)
	if err != nil {
		return err
	}

	text, err := doc.ExportPlainText(p.filter, p.separator)
	if err != nil {
		return err
	}

	var xmlBytes []byte
	if p.opts.PageXML {
		xmlBytes, err = doc.ExportPageXML()
		if err != nil {
			if !errors.Is(err, pagexml.ErrValidation) {
				return err
			}
			p.log.Error("structured export failed validation, writing plain text only",
				zap.String("page", dir), zap.Error(err))
			xmlBytes = nil
		}
	}

	return pageio.WriteArchive(dir+".compose.zip", []byte(text), xmlBytes)
}

// discoverPages lists directories under dataPath holding region artifacts.
// dataPath itself counts when it holds them directly.
func discoverPages(dataPath string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(dataPath, "regions.json")); err == nil {
		return []string{filepath.Clean(dataPath)}, nil
	}
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read data path %s", dataPath)
	}
	var pages []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(dataPath, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "regions.json")); err == nil {
			pages = append(pages, dir)
		}
	}
	return pages, nil
}

// unescape decodes escape sequences in a flag value, so `\n\n` on the
// command line becomes two newlines.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	return strconv.Unquote(quoted)
}
