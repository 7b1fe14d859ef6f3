package indexset

import (
	"fmt"

	"github.com/hupe1980/matgo/comm"
)

// Map binds an IndexSet to a communicator: it fixes which rank owns which
// global index and translates between global indices and local positions.
//
// A Map is immutable once built and may be shared read-only between any
// number of matrices and vectors.
type Map struct {
	c     comm.Communicator
	owned *IndexSet
	all   []*IndexSet // owned sets of every rank, indexed by rank
}

// MakeMap binds the set to a communicator. This is a collective call: every
// rank contributes its owned set, and the union over all ranks must cover
// [0, Size) exactly once. The resulting Map answers ownership queries for
// the whole range on every rank.
func (s *IndexSet) MakeMap(c comm.Communicator) (*Map, error) {
	gathered := c.AllGatherInt64(s.AsSlice())

	all := make([]*IndexSet, len(gathered))
	var total int64
	union := New(s.size)
	for rank, elems := range gathered {
		set, err := FromSlice(s.size, elems)
		if err != nil {
			return nil, fmt.Errorf("indexset: rank %d owned set: %w", rank, err)
		}
		all[rank] = set
		total += set.NElements()
		for _, idx := range elems {
			union.rb.Add(uint64(idx))
		}
	}

	if union.NElements() != total {
		return nil, ErrOverlap
	}
	if union.NElements() != s.size {
		return nil, ErrIncomplete
	}

	return &Map{
		c:     c,
		owned: s.Clone(),
		all:   all,
	}, nil
}

// SelfMap builds a single-rank map over the complete range [0, size).
func SelfMap(size int64) *Map {
	m, err := Complete(size).MakeMap(comm.Self())
	if err != nil {
		// A complete set on a single rank always partitions the range.
		panic(err)
	}
	return m
}

// Comm returns the communicator the map is bound to.
func (m *Map) Comm() comm.Communicator { return m.c }

// Owned returns the set of indices owned by the calling rank.
func (m *Map) Owned() *IndexSet { return m.owned }

// GlobalSize returns the size of the global index range.
func (m *Map) GlobalSize() int64 { return m.owned.Size() }

// LocalSize returns the number of indices owned by the calling rank.
func (m *Map) LocalSize() int { return int(m.owned.NElements()) }

// IsOwned reports whether the calling rank owns the global index.
func (m *Map) IsOwned(global int64) bool { return m.owned.IsElement(global) }

// LocalIndex translates a global index into the calling rank's local
// position. The second return is false if the index is not locally owned.
func (m *Map) LocalIndex(global int64) (int, bool) {
	local, ok := m.owned.IndexWithin(global)
	return int(local), ok
}

// GlobalIndex translates a local position into the global index it stores.
func (m *Map) GlobalIndex(local int) (int64, error) {
	return m.owned.NthIndex(int64(local))
}

// Owner returns the rank owning the global index.
func (m *Map) Owner(global int64) (int, bool) {
	for rank, set := range m.all {
		if set.IsElement(global) {
			return rank, true
		}
	}
	return 0, false
}

// SameAs reports whether both maps describe the same distribution: same
// global range and the same locally owned set. Mirrors the local structural
// comparison the multiply preconditions are written against.
func (m *Map) SameAs(o *Map) bool {
	if m == o {
		return true
	}
	if o == nil {
		return false
	}
	return m.GlobalSize() == o.GlobalSize() && m.owned.Equal(o.owned)
}

// LocalRange returns the smallest owned global index and one past the
// largest. For empty local sets both returns are zero.
func (m *Map) LocalRange() (int64, int64) {
	n := m.owned.NElements()
	if n == 0 {
		return 0, 0
	}
	first, _ := m.owned.NthIndex(0)
	last, _ := m.owned.NthIndex(n - 1)
	return first, last + 1
}
