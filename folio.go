// Package folio assembles the final output of a document-image analysis
// pipeline: given per-page geometric regions, line polygons with recognized
// text and confidence, a table-cell grid encoded in block identifiers, and
// an externally supplied reading order, it reconstructs a structured
// document and writes plain text plus an optional structured page document,
// one archive per page.
//
// Basic usage:
//
//	opts := folio.DefaultOptions()
//	opts.PageXML = true
//	if err := folio.Compose(ctx, "data/", opts, logger); err != nil {
//	    // handle error
//	}
//
// The lower-level packages are available for finer control: pageio loads
// page artifacts, compose builds and exports a single page, pagexml builds
// and validates the structured document.
package folio

import (
	"context"

	"go.uber.org/zap"

	"github.com/scantext/folio/pipeline"
)

// Options configures composition; see [pipeline.Options].
type Options = pipeline.Options

// DefaultOptions returns the standard composition options: paragraphs
// separated by a blank line, plain text only, confidence threshold 0.5.
func DefaultOptions() Options {
	return pipeline.DefaultOptions()
}

// Compose processes every page directory under dataPath, writing one
// output archive per page. Pages are processed in parallel; a nil logger
// disables logging.
func Compose(ctx context.Context, dataPath string, opts Options, log *zap.Logger) error {
	p, err := pipeline.New(opts, log)
	if err != nil {
		return err
	}
	return p.Traverse(ctx, dataPath)
}
