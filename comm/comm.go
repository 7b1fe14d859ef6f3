package comm

// Communicator coordinates a fixed group of cooperating ranks.
//
// All methods except Rank and Size are collective: every rank of the group
// must call them in matching order. A collective blocks until the whole group
// has arrived.
type Communicator interface {
	// Rank returns the index of the calling rank in [0, Size).
	Rank() int

	// Size returns the number of ranks in the group.
	Size() int

	// Barrier blocks until all ranks have reached it.
	Barrier()

	// SumFloat64 returns the sum of x over all ranks.
	SumFloat64(x float64) float64

	// SumInt64 returns the sum of x over all ranks.
	SumInt64(x int64) int64

	// MaxInt64 returns the maximum of x over all ranks.
	MaxInt64(x int64) int64

	// AllGatherInt64 gathers each rank's slice; the result holds one entry
	// per rank, indexed by rank. The returned slices must not be mutated.
	AllGatherInt64(vals []int64) [][]int64

	// AllToAllInt64 exchanges one slice per destination rank. send must have
	// length Size; the result recv[j] is what rank j sent to the caller.
	AllToAllInt64(send [][]int64) [][]int64

	// AllToAllFloat64 is AllToAllInt64 for float64 payloads.
	AllToAllFloat64(send [][]float64) [][]float64
}
