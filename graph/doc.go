// Package graph implements the row-distributed connectivity graph backing
// sparse matrices: for every locally owned row, the set of global column
// indices that may hold a nonzero entry.
//
// A Graph is built in two phases. While editable, InsertGlobalIndices grows
// per-row column lists inside capacity reserved up front. FillComplete, a
// collective call, sorts and deduplicates every row, compacts the lists into
// contiguous CSR storage and fixes the domain and range maps; afterwards the
// structure is immutable and the graph may be shared read-only by any number
// of matrices. Keeping structure integer-only means the compaction never
// touches numeric payloads.
package graph
