// Package matgo provides a distributed sparse-matrix engine: matrices are
// partitioned by rows across cooperating ranks, assembled against an
// immutable connectivity graph and multiplied against map-distributed
// vectors.
//
// Every matrix obeys a two-phase fill lifecycle. While editable, structure
// and values may grow; Compress, a collective call, fixes the structure
// against the domain (column) and range (row) partitionings and enables
// multiplication, element access and norms. ResumeFill reopens the editable
// phase. Mutating entry points switch a compressed matrix back to editable
// on their own; arithmetic and multiply entry points instead fail when the
// matrix is not compressed.
//
// The connectivity graph is built once from a sparsity description (package
// sparsity), kept integer-only, and may be shared read-only across any
// number of matrices built from the same structure.
package matgo
