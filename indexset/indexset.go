package indexset

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// IndexSet is an ordered set of globally unique non-negative indices drawn
// from the range [0, Size). It wraps a 64-bit roaring bitmap, so membership,
// rank and select queries stay cheap even for large, fragmented sets.
type IndexSet struct {
	size int64
	rb   *roaring64.Bitmap
}

// New creates an empty IndexSet over the global range [0, size).
func New(size int64) *IndexSet {
	if size < 0 {
		size = 0
	}
	return &IndexSet{
		size: size,
		rb:   roaring64.New(),
	}
}

// Complete creates the IndexSet holding every index of [0, size).
func Complete(size int64) *IndexSet {
	s := New(size)
	if size > 0 {
		s.rb.AddRange(0, uint64(size))
	}
	return s
}

// Size returns the size of the global index range.
func (s *IndexSet) Size() int64 { return s.size }

// Add inserts a single global index.
func (s *IndexSet) Add(idx int64) error {
	if idx < 0 || idx >= s.size {
		return &ErrIndexRange{Index: idx, Size: s.size}
	}
	s.rb.Add(uint64(idx))
	return nil
}

// AddRange inserts the half-open range [begin, end).
func (s *IndexSet) AddRange(begin, end int64) error {
	if begin < 0 || end > s.size || begin > end {
		return fmt.Errorf("indexset: range [%d, %d) outside [0, %d)", begin, end, s.size)
	}
	if begin < end {
		s.rb.AddRange(uint64(begin), uint64(end))
	}
	return nil
}

// NElements returns the number of indices in the set.
func (s *IndexSet) NElements() int64 {
	return int64(s.rb.GetCardinality())
}

// IsElement reports whether idx is contained in the set.
func (s *IndexSet) IsElement(idx int64) bool {
	if idx < 0 || idx >= s.size {
		return false
	}
	return s.rb.Contains(uint64(idx))
}

// NthIndex returns the n-th smallest index of the set (0-based).
func (s *IndexSet) NthIndex(n int64) (int64, error) {
	if n < 0 || n >= s.NElements() {
		return 0, &ErrIndexRange{Index: n, Size: s.NElements()}
	}
	v, err := s.rb.Select(uint64(n))
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// IndexWithin returns the position of a global index within the set, i.e.
// the number of set elements smaller than it. The second return is false if
// the index is not an element.
func (s *IndexSet) IndexWithin(global int64) (int64, bool) {
	if !s.IsElement(global) {
		return 0, false
	}
	// Rank counts elements <= global.
	return int64(s.rb.Rank(uint64(global))) - 1, true
}

// Elements iterates the set in ascending order.
func (s *IndexSet) Elements() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int64(it.Next())) {
				return
			}
		}
	}
}

// AsSlice returns the elements of the set in ascending order.
func (s *IndexSet) AsSlice() []int64 {
	out := make([]int64, 0, s.NElements())
	for idx := range s.Elements() {
		out = append(out, idx)
	}
	return out
}

// Equal reports whether both sets cover the same global range with the same
// elements.
func (s *IndexSet) Equal(o *IndexSet) bool {
	if s == o {
		return true
	}
	if o == nil || s.size != o.size {
		return false
	}
	return s.rb.Equals(o.rb)
}

// Clone returns a deep copy of the set.
func (s *IndexSet) Clone() *IndexSet {
	return &IndexSet{
		size: s.size,
		rb:   s.rb.Clone(),
	}
}

// FromSlice creates an IndexSet over [0, size) holding the given indices.
func FromSlice(size int64, indices []int64) (*IndexSet, error) {
	s := New(size)
	for _, idx := range indices {
		if err := s.Add(idx); err != nil {
			return nil, err
		}
	}
	return s, nil
}
