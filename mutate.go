package matgo

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Set writes values into one locally owned row. When elideZeros is true,
// zero entries are filtered out before storage; every surviving value must
// be finite. A compressed matrix is switched back to editable first. On a
// fixed structure the positions must already exist and are replaced; while
// the matrix owns a growable structure, unknown positions are inserted.
func (m *SparseMatrix) Set(row int64, cols []int64, vals []float64, elideZeros bool) error {
	local, err := m.checkRow(row, cols, vals)
	if err != nil {
		return err
	}

	cols, vals, err = m.filterEntries(row, cols, vals, elideZeros)
	if err != nil {
		return err
	}

	// A value write is a structural mutation intent.
	m.ResumeFill()

	if m.staticGraph {
		for i, c := range cols {
			slot, ok := m.g.FindLocal(local, c)
			if !ok {
				return &ErrEntryNotInPattern{Row: row, Col: c}
			}
			m.values[slot] = vals[i]
		}
		return nil
	}

	for i, c := range cols {
		if pos := slices.Index(m.dynCols[local], c); pos >= 0 {
			m.dynVals[local][pos] = vals[i]
		} else {
			m.dynCols[local] = append(m.dynCols[local], c)
			m.dynVals[local] = append(m.dynVals[local], vals[i])
		}
	}
	return nil
}

// Add accumulates values into one locally owned row. Column indices must
// lie within [0, N). Zero entries are dropped when elideZeros is true; if
// every value is elided the call is a no-op.
func (m *SparseMatrix) Add(row int64, cols []int64, vals []float64, elideZeros bool) error {
	local, err := m.checkRow(row, cols, vals)
	if err != nil {
		return err
	}

	for _, c := range cols {
		if c < 0 || c >= m.N() {
			return &ErrDimensionMismatch{Expected: m.N(), Actual: c}
		}
	}

	cols, vals, err = m.filterEntries(row, cols, vals, elideZeros)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	m.ResumeFill()

	if m.staticGraph {
		for i, c := range cols {
			slot, ok := m.g.FindLocal(local, c)
			if !ok {
				return &ErrEntryNotInPattern{Row: row, Col: c}
			}
			m.values[slot] += vals[i]
		}
		return nil
	}

	for i, c := range cols {
		if pos := slices.Index(m.dynCols[local], c); pos >= 0 {
			m.dynVals[local][pos] += vals[i]
		} else {
			m.dynCols[local] = append(m.dynCols[local], c)
			m.dynVals[local] = append(m.dynVals[local], vals[i])
		}
	}
	return nil
}

// SetBlock writes a square dense block keyed by the same index list for
// rows and columns, the usual shape of local-to-global element assembly.
// It decomposes into one Set call per row.
func (m *SparseMatrix) SetBlock(indices []int64, block *mat.Dense, elideZeros bool) error {
	r, c := block.Dims()
	if r != c {
		return ErrNotQuadratic
	}
	if len(indices) != r {
		return &ErrDimensionMismatch{Expected: int64(r), Actual: int64(len(indices))}
	}

	for i := range indices {
		if err := m.Set(indices[i], indices, mat.Row(nil, i, block), elideZeros); err != nil {
			return err
		}
	}
	return nil
}

// checkRow validates ownership and the cols/vals pairing, returning the
// local row index.
func (m *SparseMatrix) checkRow(row int64, cols []int64, vals []float64) (int, error) {
	if len(cols) != len(vals) {
		return 0, &ErrDimensionMismatch{Expected: int64(len(cols)), Actual: int64(len(vals))}
	}
	local, ok := m.rowMap.LocalIndex(row)
	if !ok {
		first, last := m.rowMap.LocalRange()
		return 0, &ErrAccessToNonLocalElement{Row: row, Col: -1, First: first, Last: last}
	}
	return local, nil
}

// filterEntries applies zero elision and the finite-value check. The inputs
// are never mutated.
func (m *SparseMatrix) filterEntries(row int64, cols []int64, vals []float64, elideZeros bool) ([]int64, []float64, error) {
	if !elideZeros {
		for i, v := range vals {
			if !isFinite(v) {
				return nil, nil, &ErrNonFiniteValue{Row: row, Col: cols[i], Value: v}
			}
		}
		return cols, vals, nil
	}

	outCols := make([]int64, 0, len(cols))
	outVals := make([]float64, 0, len(vals))
	for i, v := range vals {
		if v == 0 {
			continue
		}
		if !isFinite(v) {
			return nil, nil, &ErrNonFiniteValue{Row: row, Col: cols[i], Value: v}
		}
		outCols = append(outCols, cols[i])
		outVals = append(outVals, v)
	}
	return outCols, outVals, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sortRowEntries sorts a column/value pair of slices by ascending column.
func sortRowEntries(cols []int64, vals []float64) {
	sort.Sort(&rowEntries{cols: cols, vals: vals})
}

type rowEntries struct {
	cols []int64
	vals []float64
}

func (r *rowEntries) Len() int           { return len(r.cols) }
func (r *rowEntries) Less(i, j int) bool { return r.cols[i] < r.cols[j] }
func (r *rowEntries) Swap(i, j int) {
	r.cols[i], r.cols[j] = r.cols[j], r.cols[i]
	r.vals[i], r.vals[j] = r.vals[j], r.vals[i]
}
