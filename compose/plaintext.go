package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/scantext/folio/model"
)

// Composition accumulates plain-text fragments. A block separator goes
// between consecutive fragments whose block prefixes differ; fragments end
// with a single newline; whitespace-only fragments are dropped without
// emitting a separator.
type Composition struct {
	blockSeparator string
	parts          []string
	last           model.Path
	hasLast        bool
}

// NewComposition creates a composition with the given block separator.
func NewComposition(blockSeparator string) *Composition {
	return &Composition{blockSeparator: blockSeparator}
}

// AppendText adds one fragment. Text is NFC-normalized and trimmed first.
func (c *Composition) AppendText(path model.Path, text string) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return
	}
	if c.hasLast && c.last.BlockPath() != path.BlockPath() {
		c.parts = append(c.parts, c.blockSeparator)
	}
	c.last, c.hasLast = path, true
	c.parts = append(c.parts, text+"\n")
}

// Text returns the accumulated output.
func (c *Composition) Text() string {
	return strings.Join(c.parts, "")
}

// Filter restricts plain-text export to regions whose path starts with one
// of the configured prefixes. It never applies to structured export.
type Filter struct {
	prefixes [][]string
}

// ParseFilter parses a semicolon-separated list of slash-joined path
// prefixes, e.g. "regions/TEXT" or "regions/TEXT;regions/TABULAR".
func ParseFilter(spec string) (*Filter, error) {
	f := &Filter{}
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments := strings.Split(part, "/")
		if len(segments) > 3 {
			return nil, fmt.Errorf("region filter prefix %q has more than 3 segments", part)
		}
		f.prefixes = append(f.prefixes, segments)
	}
	if len(f.prefixes) == 0 {
		return nil, fmt.Errorf("empty region filter %q", spec)
	}
	return f, nil
}

// Matches reports whether the path starts with any configured prefix.
func (f *Filter) Matches(p model.Path) bool {
	segments := []string{p.Namespace, p.Class, p.ID}
	for _, prefix := range f.prefixes {
		if matchesPrefix(segments, prefix) {
			return true
		}
	}
	return false
}

func matchesPrefix(segments, prefix []string) bool {
	if len(prefix) > len(segments) {
		return false
	}
	for i, s := range prefix {
		if segments[i] != s {
			return false
		}
	}
	return true
}
