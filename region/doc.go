// Package region implements the four region kinds the composition engine
// emits: text blocks, multi-level tables, graphics, and merged text regions
// synthesized from regionless reading-order lines.
//
// Every region exports itself to the structured page document via the
// [Region] interface. Plain-text export is a separate capability expressed
// by [PlainTexter]: text and table regions implement it, graphic and merged
// regions do not. Callers discover the capability with a type assertion and
// skip regions that lack it, so a graphic in the reading order contributes
// nothing to the plain-text output rather than failing.
//
// All outline geometry passes through a [Transform] (inverse dewarp plus
// page-box clipping) before being emitted. A transformed outline that comes
// back empty is "no geometry": it is silently dropped when it carries no
// text and is a fatal consistency error when recognized text would be left
// without coordinates.
package region
