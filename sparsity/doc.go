// Package sparsity describes the nonzero structure a matrix is built from
// and converts it into a finalized connectivity graph.
//
// Two description variants exist. Fixed is the static variant: one column
// list per row of a dense row range. Dynamic additionally carries a
// possibly-empty relevant-rows set, so structure can be declared for a
// sparse subset of rows only; an empty set means "all rows, densely".
//
// BuildGraph is the bridge to package graph. Without data exchange it
// assumes every owned row is fully described locally, preallocates exact
// per-row capacity and finalizes with the column map as domain and the row
// map as range, in that order. With exchange enabled, contributions declared
// for rows owned elsewhere are first shipped to their owners.
package sparsity
