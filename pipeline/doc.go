// Package pipeline drives page composition over a data directory: it
// discovers page artifact directories, processes them in parallel with a
// bounded worker count, and writes one output archive per page.
//
// Pages are independent: a data-integrity failure aborts that page's
// archive only, and a structured-export validation failure downgrades the
// page to plain text. The traversal reports at the end how many pages
// failed rather than stopping at the first.
package pipeline
