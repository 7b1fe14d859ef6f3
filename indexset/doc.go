// Package indexset implements ordered sets of global indices and the
// communicator-bound maps that assign those indices to owning ranks.
//
// An IndexSet describes a subset of the half-open global range [0, Size).
// A Map is an IndexSet that has been bound to a communicator via the
// collective MakeMap call; it answers global-to-local translation, ownership
// and owner-rank queries for every index of the global range. Row maps must
// partition the range exactly (disjoint union); this is validated when the
// map is built.
package indexset
