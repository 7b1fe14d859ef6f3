package indexset

import (
	"errors"
	"fmt"
)

// ErrOverlap is returned by MakeMap when two ranks own the same index.
var ErrOverlap = errors.New("indexset: partitioning has overlapping ownership")

// ErrIncomplete is returned by MakeMap when the union over all ranks does not
// cover the full global range.
var ErrIncomplete = errors.New("indexset: partitioning does not cover the global range")

// ErrIndexRange indicates an index outside its valid range.
type ErrIndexRange struct {
	Index int64
	Size  int64
}

func (e *ErrIndexRange) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}

// ErrNotOwned indicates a global index not owned by the calling rank.
type ErrNotOwned struct {
	Index int64
	Rank  int
}

func (e *ErrNotOwned) Error() string {
	return fmt.Sprintf("global index %d is not owned by rank %d", e.Index, e.Rank)
}
