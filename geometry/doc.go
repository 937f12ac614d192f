// Package geometry provides the polygon operations the composition engine
// needs: building polygons from detector output, unioning member shapes
// into a single simple outline, and mapping analysis-space coordinates back
// to original page-image space with mandatory clipping to the page box.
//
// The structured output format requires every emitted outline to be a
// single simple polygon with non-negative, in-bounds coordinates. [Union]
// therefore substitutes the convex hull whenever a union is not a single
// polygon, and [Rewarp] clips every transformed polygon to the page box. A
// polygon that clips to nothing is returned empty; callers treat that as
// "no geometry", not as an error.
package geometry
