package sparsity

import (
	"fmt"
	"slices"

	"github.com/hupe1980/matgo/indexset"
)

// Pattern is the static sparsity description: per-row nonzero counts and
// random access to the k-th declared column of a row, in ascending column
// order.
type Pattern interface {
	// NumRows returns the global row count of the described matrix.
	NumRows() int64
	// NumCols returns the global column count of the described matrix.
	NumCols() int64
	// RowLength returns the number of declared columns of a global row.
	RowLength(row int64) int
	// ColumnNumber returns the k-th declared column of a global row,
	// k in [0, RowLength(row)).
	ColumnNumber(row int64, k int) int64
}

// RowIndexed is the dynamic description variant: it additionally exposes the
// set of rows it actually describes. An empty set means every row of the
// dense range is described.
type RowIndexed interface {
	Pattern
	// RelevantRows returns the set of described rows; may be empty.
	RelevantRows() *indexset.IndexSet
}

// Fixed is the static variant: a column list per row of the dense row range,
// stored sorted and deduplicated.
type Fixed struct {
	nCols int64
	rows  [][]int64
}

// NewFixed builds a static pattern from one column list per row. Lists are
// copied, sorted and deduplicated; column indices must lie in [0, nCols).
func NewFixed(nCols int64, rowLists [][]int64) (*Fixed, error) {
	rows := make([][]int64, len(rowLists))
	for i, list := range rowLists {
		row := slices.Clone(list)
		slices.Sort(row)
		row = slices.Compact(row)
		for _, c := range row {
			if c < 0 || c >= nCols {
				return nil, &indexset.ErrIndexRange{Index: c, Size: nCols}
			}
		}
		rows[i] = row
	}
	return &Fixed{nCols: nCols, rows: rows}, nil
}

// NumRows returns the global row count.
func (f *Fixed) NumRows() int64 { return int64(len(f.rows)) }

// NumCols returns the global column count.
func (f *Fixed) NumCols() int64 { return f.nCols }

// RowLength returns the number of declared columns of a row.
func (f *Fixed) RowLength(row int64) int {
	if row < 0 || row >= f.NumRows() {
		return 0
	}
	return len(f.rows[row])
}

// ColumnNumber returns the k-th declared column of a row.
func (f *Fixed) ColumnNumber(row int64, k int) int64 {
	return f.rows[row][k]
}

// NNonzero returns the total number of declared entries.
func (f *Fixed) NNonzero() int64 {
	var n int64
	for _, row := range f.rows {
		n += int64(len(row))
	}
	return n
}

func (f *Fixed) String() string {
	return fmt.Sprintf("sparsity.Fixed{%dx%d, nnz=%d}", f.NumRows(), f.nCols, f.NNonzero())
}
