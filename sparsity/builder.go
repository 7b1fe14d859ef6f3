package sparsity

import (
	"fmt"

	"github.com/hupe1980/matgo/graph"
	"github.com/hupe1980/matgo/indexset"
)

// BuildGraph converts a sparsity description into a finalized connectivity
// graph distributed by rowMap. This is a collective operation.
//
// With exchangeData false, every owned row must be fully described locally:
// the builder reads per-row lengths to reserve exact capacity, inserts the
// owned rows' column lists and finalizes with colMap as domain and rowMap as
// range, in that order. With exchangeData true, the description may declare
// structure for rows owned by other ranks; those contributions are shipped
// to their owners first.
func BuildGraph(rowMap, colMap *indexset.Map, p Pattern, exchangeData bool) (*graph.Graph, error) {
	if p.NumRows() != rowMap.GlobalSize() {
		return nil, &ErrShapeMismatch{Which: "rows", Pattern: p.NumRows(), Map: rowMap.GlobalSize()}
	}
	if p.NumCols() != colMap.GlobalSize() {
		return nil, &ErrShapeMismatch{Which: "cols", Pattern: p.NumCols(), Map: colMap.GlobalSize()}
	}

	if exchangeData {
		exchanged, err := Exchange(rowMap, p)
		if err != nil {
			return nil, err
		}
		p = exchanged
	}

	rows := describedRows(p, rowMap)

	// Exact per-row capacity, so graph assembly never reallocates.
	entriesPerRow := make([]int, rowMap.LocalSize())
	for _, r := range rows {
		if local, ok := rowMap.LocalIndex(r); ok {
			entriesPerRow[local] = p.RowLength(r)
		}
	}

	g, err := graph.New(rowMap, entriesPerRow)
	if err != nil {
		return nil, err
	}

	cols := make([]int64, 0, 64)
	for _, r := range rows {
		if !rowMap.IsOwned(r) {
			continue
		}
		length := p.RowLength(r)
		if length == 0 {
			continue
		}
		cols = cols[:0]
		for k := 0; k < length; k++ {
			cols = append(cols, p.ColumnNumber(r, k))
		}
		if err := g.InsertGlobalIndices(r, cols); err != nil {
			return nil, err
		}
	}

	// Domain (column) map first, then range (row) map.
	if err := g.FillComplete(colMap, rowMap); err != nil {
		return nil, err
	}

	if g.NumGlobalCols() != p.NumCols() {
		return nil, fmt.Errorf("sparsity: malformed description: graph has %d global columns, pattern declares %d",
			g.NumGlobalCols(), p.NumCols())
	}
	return g, nil
}

// Exchange ships structure declared for non-owned rows to their owning ranks
// and returns a description restricted to the caller's owned rows. This is a
// collective operation.
func Exchange(rowMap *indexset.Map, p Pattern) (*Dynamic, error) {
	c := rowMap.Comm()
	merged := NewDynamicWithRows(p.NumRows(), p.NumCols(), rowMap.Owned().Clone())

	// Stream format per row: [globalRow, nCols, cols...].
	send := make([][]int64, c.Size())
	for _, r := range describedRows(p, rowMap) {
		length := p.RowLength(r)
		if length == 0 {
			continue
		}
		cols := make([]int64, length)
		for k := range cols {
			cols[k] = p.ColumnNumber(r, k)
		}

		if rowMap.IsOwned(r) {
			if err := merged.AddRow(r, cols); err != nil {
				return nil, err
			}
			continue
		}
		owner, ok := rowMap.Owner(r)
		if !ok {
			return nil, &indexset.ErrIndexRange{Index: r, Size: rowMap.GlobalSize()}
		}
		send[owner] = append(send[owner], r, int64(length))
		send[owner] = append(send[owner], cols...)
	}

	for _, stream := range c.AllToAllInt64(send) {
		for pos := 0; pos < len(stream); {
			r, length := stream[pos], int(stream[pos+1])
			pos += 2
			if err := merged.AddRow(r, stream[pos:pos+length]); err != nil {
				return nil, err
			}
			pos += length
		}
	}
	return merged, nil
}

// describedRows lists the rows the description declares structure for: the
// relevant-rows set when present and non-empty, the dense row range
// otherwise.
func describedRows(p Pattern, rowMap *indexset.Map) []int64 {
	if ri, ok := p.(RowIndexed); ok {
		if rel := ri.RelevantRows(); rel != nil && rel.NElements() > 0 {
			return rel.AsSlice()
		}
	}
	rows := make([]int64, p.NumRows())
	for i := range rows {
		rows[i] = int64(i)
	}
	return rows
}
