package matgo

import (
	"math"

	"github.com/hupe1980/matgo/vector"
)

// Scale multiplies every stored entry by factor. The matrix must be
// compressed.
func (m *SparseMatrix) Scale(factor float64) error {
	if !m.compressed {
		return ErrNotCompressed
	}
	for i := range m.values {
		m.values[i] *= factor
	}
	return nil
}

// DivideBy divides every stored entry by factor.
func (m *SparseMatrix) DivideBy(factor float64) error {
	if factor == 0 {
		return ErrDivideByZero
	}
	return m.Scale(1 / factor)
}

// SetZero keeps the structure and zeroes every stored value. Assigning any
// other scalar to a whole matrix is not meaningful for sparse storage.
func (m *SparseMatrix) SetZero() {
	if m.g != nil {
		for i := range m.values {
			m.values[i] = 0
		}
		return
	}
	for i := range m.dynVals {
		for k := range m.dynVals[i] {
			m.dynVals[i][k] = 0
		}
	}
}

// Assign sets every stored value to d. Only d == 0 is accepted; any other
// scalar would densify the matrix.
func (m *SparseMatrix) Assign(d float64) error {
	if d != 0 {
		return ErrScalarAssignmentOnlyForZero
	}
	m.SetZero()
	return nil
}

// AddScaled computes m += factor * other entry by entry. Both matrices
// must be compressed, share their global shape and row distribution, and
// other's structure must be contained in m's: every entry of other needs a
// matching stored position in m.
func (m *SparseMatrix) AddScaled(factor float64, other *SparseMatrix) error {
	if !m.compressed || !other.compressed {
		return ErrNotCompressed
	}
	if m.M() != other.M() {
		return &ErrDimensionMismatch{Expected: m.M(), Actual: other.M()}
	}
	if m.N() != other.N() {
		return &ErrDimensionMismatch{Expected: m.N(), Actual: other.N()}
	}
	if !m.rowMap.SameAs(other.rowMap) {
		return &ErrMapMismatch{Which: "row"}
	}

	for i := 0; i < other.g.LocalRows(); i++ {
		cols := other.g.RowView(i)
		start, _ := other.g.RowOffsets(i)
		for k, col := range cols {
			v := other.values[start+k]
			if v == 0 {
				continue
			}
			slot, ok := m.g.FindLocal(i, col)
			if !ok {
				row, err := m.rowMap.GlobalIndex(i)
				if err != nil {
					return err
				}
				return &ErrEntryNotInPattern{Row: row, Col: col}
			}
			m.values[slot] += factor * v
		}
	}
	return nil
}

// CopyFrom makes m a copy of other. The fixed structure is shared
// zero-copy, only the values are duplicated; editable state is deep
// copied.
func (m *SparseMatrix) CopyFrom(other *SparseMatrix) {
	if m == other {
		return
	}

	m.rowMap = other.rowMap
	m.colMap = other.colMap
	m.g = other.g
	m.staticGraph = other.staticGraph
	m.compressed = other.compressed
	m.plan = other.plan

	m.values = nil
	if other.values != nil {
		m.values = append([]float64(nil), other.values...)
	}

	m.dynCols, m.dynVals = nil, nil
	if other.dynCols != nil {
		m.dynCols = make([][]int64, len(other.dynCols))
		m.dynVals = make([][]float64, len(other.dynVals))
		for i := range other.dynCols {
			m.dynCols[i] = append([]int64(nil), other.dynCols[i]...)
			m.dynVals[i] = append([]float64(nil), other.dynVals[i]...)
		}
	}
}

// FrobeniusNorm returns the square root of the sum of squares of all
// stored entries, over all ranks. The matrix must be compressed.
func (m *SparseMatrix) FrobeniusNorm() (float64, error) {
	if !m.compressed {
		return 0, ErrNotCompressed
	}
	var local float64
	for _, v := range m.values {
		local += v * v
	}
	return math.Sqrt(m.Comm().SumFloat64(local)), nil
}

// MatrixNormSquare computes v^T A v for a square matrix. Collective.
func (m *SparseMatrix) MatrixNormSquare(v *vector.Vector) (float64, error) {
	return m.MatrixScalarProduct(v, v)
}

// MatrixScalarProduct computes u^T A v for a square matrix. Collective.
func (m *SparseMatrix) MatrixScalarProduct(u, v *vector.Vector) (float64, error) {
	if m.M() != m.N() {
		return 0, ErrNotQuadratic
	}
	if !m.compressed {
		return 0, ErrNotCompressed
	}

	tmp := vector.New(m.rowMap)
	if err := m.apply(tmp, v, false, 0); err != nil {
		return 0, err
	}
	return u.Dot(tmp)
}
