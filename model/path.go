package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment values used by the upstream segmentation stage.
const (
	NamespaceRegions  = "regions"
	ClassText         = "TEXT"
	ClassTabular      = "TABULAR"
	ClassIllustration = "ILLUSTRATION"
)

// Path identifies a geometric or textual entity on a page. Namespace, Class
// and ID are always set; Line is empty for block paths and set for line
// paths. Path is a comparable value type and is used directly as a map key.
type Path struct {
	Namespace string
	Class     string
	ID        string
	Line      string
}

// Group is the (namespace, class) pair of a path, used when allocating new
// block indices.
type Group struct {
	Namespace string
	Class     string
}

// GridCell is a table grid position decoded from a block id segment.
type GridCell struct {
	Division int
	Row      int
	Column   int
}

// ParsePath parses a slash-joined path string. Only block paths (three
// segments) and line paths (four segments) are legal.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 3:
		return Path{Namespace: parts[0], Class: parts[1], ID: parts[2]}, nil
	case 4:
		return Path{Namespace: parts[0], Class: parts[1], ID: parts[2], Line: parts[3]}, nil
	}
	return Path{}, fmt.Errorf("illegal region/line path %q", s)
}

// MustParsePath is ParsePath for tests and literals; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// BlockPath returns a path with three segments, namely the line path's
// enclosing block, or the path itself if it already is a block path.
func (p Path) BlockPath() Path {
	p.Line = ""
	return p
}

// IsLine reports whether p names a line rather than a block.
func (p Path) IsLine() bool {
	return p.Line != ""
}

// Len returns the number of segments (3 or 4).
func (p Path) Len() int {
	if p.IsLine() {
		return 4
	}
	return 3
}

// Group returns the (namespace, class) pair of the path.
func (p Path) Group() Group {
	return Group{Namespace: p.Namespace, Class: p.Class}
}

// String returns the slash-joined form used by the reading-order artifact.
func (p Path) String() string {
	if p.IsLine() {
		return strings.Join([]string{p.Namespace, p.Class, p.ID, p.Line}, "/")
	}
	return strings.Join([]string{p.Namespace, p.Class, p.ID}, "/")
}

// RegionID returns the hyphen-joined form used as a structured-document
// element id. The same input path always yields the same id.
func (p Path) RegionID() string {
	if p.IsLine() {
		return strings.Join([]string{p.Namespace, p.Class, p.ID, p.Line}, "-")
	}
	return strings.Join([]string{p.Namespace, p.Class, p.ID}, "-")
}

// Less defines a structural ordering over paths, segment by segment.
func (p Path) Less(other Path) bool {
	if p.Namespace != other.Namespace {
		return p.Namespace < other.Namespace
	}
	if p.Class != other.Class {
		return p.Class < other.Class
	}
	if p.ID != other.ID {
		return p.ID < other.ID
	}
	return p.Line < other.Line
}

// TableCell splits a block id of the form "<id>.<division>.<row>.<column>"
// into the base block path and the grid cell it addresses. ok is false when
// the id segment carries no grid coordinates.
func (p Path) TableCell() (base Path, cell GridCell, ok bool) {
	parts := strings.Split(p.ID, ".")
	if len(parts) != 4 {
		return Path{}, GridCell{}, false
	}
	nums := make([]int, 3)
	for i, s := range parts[1:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Path{}, GridCell{}, false
		}
		nums[i] = n
	}
	base = Path{Namespace: p.Namespace, Class: p.Class, ID: parts[0]}
	return base, GridCell{Division: nums[0], Row: nums[1], Column: nums[2]}, true
}

// BaseID returns the id segment with any grid coordinates stripped.
func (p Path) BaseID() string {
	if i := strings.IndexByte(p.ID, '.'); i >= 0 {
		return p.ID[:i]
	}
	return p.ID
}
