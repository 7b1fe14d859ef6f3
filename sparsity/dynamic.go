package sparsity

import (
	"slices"

	"github.com/hupe1980/matgo/indexset"
)

// Dynamic is the growable sparsity description. It may describe only a
// subset of rows: pass a relevant-rows set to restrict the rows this process
// declares structure for, or nil/empty to describe the dense row range.
type Dynamic struct {
	nRows, nCols int64
	relevant     *indexset.IndexSet
	rows         map[int64][]int64 // sorted unique column lists, keyed by global row
}

// NewDynamic creates an empty dynamic pattern for an nRows x nCols matrix
// describing all rows.
func NewDynamic(nRows, nCols int64) *Dynamic {
	return NewDynamicWithRows(nRows, nCols, nil)
}

// NewDynamicWithRows creates an empty dynamic pattern restricted to the
// given relevant rows. A nil or empty set is treated as "all rows".
func NewDynamicWithRows(nRows, nCols int64, relevant *indexset.IndexSet) *Dynamic {
	if relevant == nil {
		relevant = indexset.New(nRows)
	}
	return &Dynamic{
		nRows:    nRows,
		nCols:    nCols,
		relevant: relevant,
		rows:     make(map[int64][]int64),
	}
}

// Add declares a single candidate nonzero position.
func (d *Dynamic) Add(row, col int64) error {
	return d.AddRow(row, []int64{col})
}

// AddRow declares candidate nonzero columns for one row. Duplicates are
// absorbed; column lists stay sorted.
func (d *Dynamic) AddRow(row int64, cols []int64) error {
	if row < 0 || row >= d.nRows {
		return &indexset.ErrIndexRange{Index: row, Size: d.nRows}
	}
	list := d.rows[row]
	for _, c := range cols {
		if c < 0 || c >= d.nCols {
			return &indexset.ErrIndexRange{Index: c, Size: d.nCols}
		}
		pos, found := slices.BinarySearch(list, c)
		if !found {
			list = slices.Insert(list, pos, c)
		}
	}
	d.rows[row] = list
	return nil
}

// NumRows returns the global row count.
func (d *Dynamic) NumRows() int64 { return d.nRows }

// NumCols returns the global column count.
func (d *Dynamic) NumCols() int64 { return d.nCols }

// RowLength returns the number of declared columns of a row.
func (d *Dynamic) RowLength(row int64) int { return len(d.rows[row]) }

// ColumnNumber returns the k-th declared column of a row.
func (d *Dynamic) ColumnNumber(row int64, k int) int64 { return d.rows[row][k] }

// RelevantRows returns the set of rows this description is restricted to;
// empty means the dense row range.
func (d *Dynamic) RelevantRows() *indexset.IndexSet { return d.relevant }

// DescribedRows returns the rows that actually carry declared columns, in
// ascending order.
func (d *Dynamic) DescribedRows() []int64 {
	rows := make([]int64, 0, len(d.rows))
	for r := range d.rows {
		rows = append(rows, r)
	}
	slices.Sort(rows)
	return rows
}

// NNonzero returns the total number of declared entries.
func (d *Dynamic) NNonzero() int64 {
	var n int64
	for _, row := range d.rows {
		n += int64(len(row))
	}
	return n
}
