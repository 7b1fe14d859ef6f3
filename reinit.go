package matgo

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/matgo/indexset"
	"github.com/hupe1980/matgo/sparsity"
)

// Reinit rebuilds the matrix as a single-rank matrix over the given
// sparsity pattern. All previous content is discarded; the new matrix is
// zero-valued, structure-fixed and compressed.
func (m *SparseMatrix) Reinit(p sparsity.Pattern) error {
	rowMap := indexset.SelfMap(p.NumRows())
	colMap := indexset.SelfMap(p.NumCols())
	return m.ReinitDistributed(rowMap, colMap, p, false)
}

// ReinitDistributed rebuilds the matrix over the given row and column
// partitionings and sparsity pattern. When exchangeData is set, rows the
// pattern describes on non-owning ranks are shipped to their owners first.
// Collective; the resulting matrix is zero-valued and compressed.
func (m *SparseMatrix) ReinitDistributed(rowMap, colMap *indexset.Map, p sparsity.Pattern, exchangeData bool) error {
	g, err := sparsity.BuildGraph(rowMap, colMap, p, exchangeData)
	if err != nil {
		m.logger.LogReinit(context.Background(), rowMap.GlobalSize(), colMap.GlobalSize(), 0, err)
		return err
	}

	m.rowMap = rowMap
	m.colMap = colMap
	m.g = g
	m.values = make([]float64, g.LocalNNZ())
	m.dynCols, m.dynVals = nil, nil
	m.staticGraph = true
	m.compressed = false
	m.plan = nil

	if err := m.Compress(); err != nil {
		return err
	}
	m.logger.LogReinit(context.Background(), m.M(), m.N(), g.GlobalNNZ(), nil)
	return nil
}

// RowMatrix is a read-only row-major view of a matrix used as a reinit
// source. Row must return the owned row's global column indices in
// ascending order with the values aligned.
type RowMatrix interface {
	Dims() (rows, cols int64)
	Row(local int) (cols []int64, vals []float64)
}

// ReinitFrom rebuilds the matrix from another matrix's locally owned
// entries. The structure is taken over unfiltered, from p when non-nil and
// from the source otherwise; the drop tolerance acts on the copied values
// alone, so positions whose value has magnitude <= dropTolerance stay in
// the pattern with value zero, the diagonal included. With copyValues
// false a matrix that already carries the target shape and nonzero count
// is left untouched; otherwise only the structure is rebuilt and the
// values start out zero. The source may alias the receiver.
func (m *SparseMatrix) ReinitFrom(rowMap, colMap *indexset.Map, ref RowMatrix, dropTolerance float64, copyValues bool, p sparsity.Pattern) error {
	refRows, refCols := ref.Dims()
	if refRows != rowMap.GlobalSize() {
		return &ErrDimensionMismatch{Expected: rowMap.GlobalSize(), Actual: refRows}
	}
	if refCols != colMap.GlobalSize() {
		return &ErrDimensionMismatch{Expected: colMap.GlobalSize(), Actual: refCols}
	}

	// Snapshot the source rows before touching the receiver; the structural
	// rebuild below would otherwise read back the already emptied matrix
	// when ref is m itself.
	nLocal := rowMap.LocalSize()
	srcCols := make([][]int64, nLocal)
	srcVals := make([][]float64, nLocal)
	for i := 0; i < nLocal; i++ {
		cols, vals := ref.Row(i)
		srcCols[i] = append([]int64(nil), cols...)
		srcVals[i] = append([]float64(nil), vals...)
	}

	var patNNZ int64
	if p != nil {
		for r := int64(0); r < p.NumRows(); r++ {
			patNNZ += int64(p.RowLength(r))
		}
	} else {
		var local int64
		for i := range srcCols {
			local += int64(len(srcCols[i]))
		}
		patNNZ = rowMap.Comm().SumInt64(local)
	}

	if m.g != nil && m.M() == refRows && m.NNonzeroElements() == patNNZ && !copyValues {
		return nil
	}

	if p == nil {
		lists, err := sparsity.NewFixed(colMap.GlobalSize(), srcCols)
		if err != nil {
			return err
		}
		// NewFixed indexes rows 0..nLocal-1; BuildGraph maps them back
		// through the row map, so wrap it to answer for the owned globals.
		p = &localRowsPattern{rowMap: rowMap, fixed: lists, nRows: refRows}
	}
	if err := m.ReinitDistributed(rowMap, colMap, p, false); err != nil {
		return err
	}
	if !copyValues {
		return nil
	}
	m.copyRowValues(srcCols, srcVals, dropTolerance)
	return nil
}

// copyRowValues writes the snapshotted source rows into the freshly built
// structure. Both sides are column-sorted, so source and target advance in
// lockstep; positions the structure does not carry are skipped, and values
// at or below the drop tolerance leave the stored zero in place.
func (m *SparseMatrix) copyRowValues(srcCols [][]int64, srcVals [][]float64, dropTolerance float64) {
	for i := range srcCols {
		cols := srcCols[i]
		vals := srcVals[i]
		dstCols := m.g.RowView(i)
		start, _ := m.g.RowOffsets(i)

		p := 0
		for k, c := range dstCols {
			for p < len(cols) && cols[p] < c {
				p++
			}
			if p == len(cols) {
				break
			}
			if cols[p] != c {
				continue
			}
			if v := vals[p]; math.Abs(v) > dropTolerance {
				m.values[start+k] = v
			}
		}
	}
}

// localRowsPattern presents per-local-row column lists under their global
// row numbers.
type localRowsPattern struct {
	rowMap *indexset.Map
	fixed  *sparsity.Fixed
	nRows  int64
}

func (p *localRowsPattern) NumRows() int64 { return p.nRows }
func (p *localRowsPattern) NumCols() int64 { return p.fixed.NumCols() }

func (p *localRowsPattern) RowLength(row int64) int {
	local, ok := p.rowMap.LocalIndex(row)
	if !ok {
		return 0
	}
	return p.fixed.RowLength(int64(local))
}

func (p *localRowsPattern) ColumnNumber(row int64, k int) int64 {
	local, _ := p.rowMap.LocalIndex(row)
	return p.fixed.ColumnNumber(int64(local), k)
}

func (p *localRowsPattern) RelevantRows() *indexset.IndexSet {
	return p.rowMap.Owned()
}

// DenseRows adapts a gonum dense matrix into a RowMatrix over a
// single-rank row map, keeping only its nonzero entries.
type DenseRows struct {
	d *mat.Dense
}

// NewDenseRows wraps a dense matrix as a reinit source.
func NewDenseRows(d *mat.Dense) *DenseRows {
	return &DenseRows{d: d}
}

func (r *DenseRows) Dims() (int64, int64) {
	rows, cols := r.d.Dims()
	return int64(rows), int64(cols)
}

func (r *DenseRows) Row(local int) ([]int64, []float64) {
	_, n := r.d.Dims()
	var cols []int64
	var vals []float64
	for j := 0; j < n; j++ {
		if v := r.d.At(local, j); v != 0 {
			cols = append(cols, int64(j))
			vals = append(vals, v)
		}
	}
	return cols, vals
}
