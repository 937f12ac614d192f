// Package pagexml builds, serializes and validates the structured page
// document emitted alongside the plain-text export.
//
// The document is assembled as a tree: the page element carries the image
// size, a single reading-order section lists region ids in final order, and
// each region contributes a nested subtree of coordinate outlines and text
// lines. Outline coordinates are expected in original page-image space; the
// format forbids negative or out-of-bounds values, which [Validate]
// enforces along with id uniqueness and reading-order integrity.
//
// Empty nodes are pruned by the caller via [Region.Remove] and
// [Document.Remove]; removing a top-level region also drops its
// reading-order reference so the document stays internally consistent.
package pagexml
