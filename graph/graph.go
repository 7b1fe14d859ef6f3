package graph

import (
	"slices"

	"github.com/hupe1980/matgo/indexset"
)

// Graph is a row-distributed sparsity graph with a two-phase lifecycle:
// editable until FillComplete, immutable afterwards.
type Graph struct {
	rowMap *indexset.Map

	// Editable state: one growable column list per local row, preallocated
	// to the declared capacity.
	rows [][]int64

	// Compressed state (CSR over local rows, global column indices, sorted
	// and unique within each row).
	rowPtr []int
	cols   []int64

	domainMap *indexset.Map
	rangeMap  *indexset.Map

	filled         bool
	nGlobalEntries int64
}

// New creates an editable graph whose local rows follow rowMap, reserving
// exact per-row capacity. entriesPerRow is indexed by local row; a nil slice
// reserves nothing.
func New(rowMap *indexset.Map, entriesPerRow []int) (*Graph, error) {
	if entriesPerRow != nil && len(entriesPerRow) != rowMap.LocalSize() {
		return nil, &ErrRowCountMismatch{Declared: len(entriesPerRow), Local: rowMap.LocalSize()}
	}

	rows := make([][]int64, rowMap.LocalSize())
	for i := range rows {
		capacity := 0
		if entriesPerRow != nil {
			capacity = entriesPerRow[i]
		}
		rows[i] = make([]int64, 0, capacity)
	}

	return &Graph{
		rowMap: rowMap,
		rows:   rows,
	}, nil
}

// NewUniform creates an editable graph reserving the same capacity for every
// local row.
func NewUniform(rowMap *indexset.Map, maxEntriesPerRow int) *Graph {
	perRow := make([]int, rowMap.LocalSize())
	for i := range perRow {
		perRow[i] = maxEntriesPerRow
	}
	g, _ := New(rowMap, perRow)
	return g
}

// RowMap returns the map describing row ownership.
func (g *Graph) RowMap() *indexset.Map { return g.rowMap }

// DomainMap returns the domain (column space) map fixed by FillComplete, or
// nil while the graph is editable.
func (g *Graph) DomainMap() *indexset.Map { return g.domainMap }

// RangeMap returns the range (row space) map fixed by FillComplete, or nil
// while the graph is editable.
func (g *Graph) RangeMap() *indexset.Map { return g.rangeMap }

// IsFilled reports whether FillComplete has fixed the structure.
func (g *Graph) IsFilled() bool { return g.filled }

// NumGlobalRows returns the global row count.
func (g *Graph) NumGlobalRows() int64 { return g.rowMap.GlobalSize() }

// NumGlobalCols returns the global column count. Zero while editable.
func (g *Graph) NumGlobalCols() int64 {
	if g.domainMap == nil {
		return 0
	}
	return g.domainMap.GlobalSize()
}

// LocalRows returns the number of locally owned rows.
func (g *Graph) LocalRows() int { return g.rowMap.LocalSize() }

// InsertGlobalIndices records candidate nonzero columns for a locally owned
// global row. Only valid while the graph is editable.
func (g *Graph) InsertGlobalIndices(globalRow int64, cols []int64) error {
	if g.filled {
		return ErrFilled
	}
	local, ok := g.rowMap.LocalIndex(globalRow)
	if !ok {
		return &indexset.ErrNotOwned{Index: globalRow, Rank: g.rowMap.Comm().Rank()}
	}
	for _, c := range cols {
		if c < 0 {
			return &indexset.ErrIndexRange{Index: c, Size: 0}
		}
	}
	g.rows[local] = append(g.rows[local], cols...)
	return nil
}

// FillComplete fixes the structure against the given domain (column) and
// range (row) maps, in that order, and compacts per-row lists into sorted,
// deduplicated CSR storage. This is a collective operation; it is a no-op on
// an already filled graph.
func (g *Graph) FillComplete(domain, rng *indexset.Map) error {
	if g.filled {
		return nil
	}
	if domain == nil || rng == nil {
		return ErrNilMap
	}
	if !rng.SameAs(g.rowMap) {
		return &ErrMapMismatch{Which: "range", Expected: g.rowMap.GlobalSize(), Actual: rng.GlobalSize()}
	}

	nCols := domain.GlobalSize()
	nnz := 0
	for i := range g.rows {
		slices.Sort(g.rows[i])
		g.rows[i] = slices.Compact(g.rows[i])
		for _, c := range g.rows[i] {
			if c >= nCols {
				return &indexset.ErrIndexRange{Index: c, Size: nCols}
			}
		}
		nnz += len(g.rows[i])
	}

	g.rowPtr = make([]int, len(g.rows)+1)
	g.cols = make([]int64, 0, nnz)
	for i, row := range g.rows {
		g.rowPtr[i] = len(g.cols)
		g.cols = append(g.cols, row...)
	}
	g.rowPtr[len(g.rows)] = len(g.cols)

	g.rows = nil
	g.domainMap = domain
	g.rangeMap = rng
	g.nGlobalEntries = g.rowMap.Comm().SumInt64(int64(nnz))
	g.filled = true
	return nil
}

// RowView returns the sorted global column indices stored for a local row.
// Only valid on a filled graph; the slice must not be mutated.
func (g *Graph) RowView(localRow int) []int64 {
	return g.cols[g.rowPtr[localRow]:g.rowPtr[localRow+1]]
}

// RowOffsets returns the half-open range of storage slots for a local row.
func (g *Graph) RowOffsets(localRow int) (int, int) {
	return g.rowPtr[localRow], g.rowPtr[localRow+1]
}

// RowLength returns the number of stored columns of a local row. Valid in
// both phases.
func (g *Graph) RowLength(localRow int) int {
	if g.filled {
		return g.rowPtr[localRow+1] - g.rowPtr[localRow]
	}
	return len(g.rows[localRow])
}

// LocalNNZ returns the number of locally stored entries.
func (g *Graph) LocalNNZ() int {
	if !g.filled {
		n := 0
		for _, row := range g.rows {
			n += len(row)
		}
		return n
	}
	return len(g.cols)
}

// GlobalNNZ returns the number of entries over all ranks. Only meaningful on
// a filled graph.
func (g *Graph) GlobalNNZ() int64 { return g.nGlobalEntries }

// FindLocal returns the storage slot of (localRow, globalCol) on a filled
// graph, scanning the row's stored columns.
func (g *Graph) FindLocal(localRow int, globalCol int64) (int, bool) {
	start, end := g.RowOffsets(localRow)
	for k := start; k < end; k++ {
		if g.cols[k] == globalCol {
			return k, true
		}
	}
	return 0, false
}
