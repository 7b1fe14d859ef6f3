// Package comm provides the process-group communicator used by distributed
// matrices and vectors.
//
// Every structural finalize, graph fill-complete and multiply call in matgo is
// a collective operation: all ranks sharing a Communicator must invoke the
// same collectives in the same order, or the group deadlocks. Collectives
// block until every rank has arrived; there are no timeouts and no partial
// completion.
//
// Two implementations are provided: Self, a single-rank communicator for
// serial matrices, and Group, an in-process implementation backing one rank
// per goroutine. Run drives a function per rank over a fresh group.
package comm
