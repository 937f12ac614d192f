// Package compose reconstructs a structured document from flat path-keyed
// page artifacts and exports it as plain text and as a structured page
// document.
//
// [NewDocument] ingests per-line geometry, confidence and recognized text
// together with per-block geometry, routing every line into a text region
// or into a table region's grid cell and eagerly creating graphic regions
// for illustration blocks. [ReconstructOrder] then walks the externally
// supplied reading order, which may reference whole blocks or individual
// lines, and synthesizes merged regions for runs of regionless lines so the
// structured output only ever orders regions.
//
// The two exporters are independent: a schema-validation failure in the
// structured export does not affect the plain-text export of the same page.
// Construction is single-threaded and the document is effectively immutable
// once exporting begins; pages may be processed concurrently because no
// state is shared between documents.
package compose
