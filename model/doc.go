// Package model provides the value types shared by the composition engine.
//
// The central type is [Path], the identifier scheme used by every upstream
// artifact: a block path has three segments (namespace, class, id) and names
// one spatial region; a line path adds a fourth segment naming one text line
// inside that block. Table blocks carry their grid position encoded in the
// id segment as "<id>.<division>.<row>.<column>"; [Path.TableCell] decodes
// it.
//
// [Line] and [Block] are the per-path geometric inputs, and [Page] holds the
// page image size together with the dewarper used to map analysis-space
// coordinates back to image space.
package model
