package matgo

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/matgo/comm"
	"github.com/hupe1980/matgo/graph"
	"github.com/hupe1980/matgo/indexset"
)

// SparseMatrix is a row-distributed sparse matrix. It owns a connectivity
// graph and a value array aligned 1:1 with the graph's storage slots, plus a
// reference to the column-space partitioning its entries are defined
// against.
//
// A SparseMatrix is not safe for concurrent use; callers serialize access to
// one instance themselves. Row ownership is exclusive: a rank never stores
// rows it does not own.
type SparseMatrix struct {
	rowMap *indexset.Map
	colMap *indexset.Map

	// Fixed structure plus aligned values. g is nil while the matrix is
	// assembling its own structure.
	g      *graph.Graph
	values []float64

	// Editable assembly state for matrices that own their structure: one
	// column/value pair of slices per local row, preallocated to the
	// declared capacity.
	dynCols [][]int64
	dynVals [][]float64

	// staticGraph marks structure adopted from a finalized graph; such
	// structure never grows, writes may only replace existing entries.
	staticGraph bool
	compressed  bool

	plan *importPlan

	logger *Logger
}

// Option configures a SparseMatrix.
type Option func(*SparseMatrix)

// WithLogger attaches a logger to the matrix. The default discards all
// output.
func WithLogger(l *Logger) Option {
	return func(m *SparseMatrix) {
		m.logger = l
	}
}

// New creates an empty 0x0 matrix, locally owned by a single rank and
// already compressed.
func New(opts ...Option) *SparseMatrix {
	m := &SparseMatrix{
		rowMap:      indexset.SelfMap(0),
		colMap:      indexset.SelfMap(0),
		staticGraph: true,
		logger:      NoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	g := graph.NewUniform(m.rowMap, 0)
	// A 0x0 graph always fill-completes.
	if err := g.FillComplete(m.colMap, m.rowMap); err != nil {
		panic(err)
	}
	m.g = g
	m.values = make([]float64, 0)
	m.plan = emptyImportPlan()
	m.compressed = true
	return m
}

// NewFromGraph adopts a finalized graph directly, sharing its structure
// zero-copy. The matrix starts uncompressed: numeric storage state is only
// established by one explicit Compress call.
func NewFromGraph(g *graph.Graph, opts ...Option) (*SparseMatrix, error) {
	if !g.IsFilled() {
		return nil, fmt.Errorf("matgo: graph must be fill-completed before a matrix can adopt it")
	}

	m := &SparseMatrix{
		rowMap:      g.RowMap(),
		colMap:      g.DomainMap(),
		g:           g,
		values:      make([]float64, g.LocalNNZ()),
		staticGraph: true,
		logger:      NoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewSerial creates an editable m x n matrix owned entirely by the calling
// rank, reserving capacity for maxEntriesPerRow entries in every row.
func NewSerial(rows, cols int64, maxEntriesPerRow int, opts ...Option) *SparseMatrix {
	m, _ := newDynamic(indexset.SelfMap(rows), indexset.SelfMap(cols), uniformCaps(int(rows), maxEntriesPerRow), opts)
	return m
}

// NewSerialPerRow is NewSerial with an individual capacity per row.
func NewSerialPerRow(rows, cols int64, entriesPerRow []int, opts ...Option) (*SparseMatrix, error) {
	return newDynamic(indexset.SelfMap(rows), indexset.SelfMap(cols), entriesPerRow, opts)
}

// NewDistributed creates an editable matrix whose rows follow rowMap and
// whose column space follows colMap, reserving uniform per-row capacity.
func NewDistributed(rowMap, colMap *indexset.Map, maxEntriesPerRow int, opts ...Option) *SparseMatrix {
	m, _ := newDynamic(rowMap, colMap, uniformCaps(rowMap.LocalSize(), maxEntriesPerRow), opts)
	return m
}

// NewDistributedPerRow is NewDistributed with an individual capacity per
// local row.
func NewDistributedPerRow(rowMap, colMap *indexset.Map, entriesPerRow []int, opts ...Option) (*SparseMatrix, error) {
	return newDynamic(rowMap, colMap, entriesPerRow, opts)
}

// NewPartitioned creates an editable square matrix using one map for both
// the row and the column space.
func NewPartitioned(m *indexset.Map, maxEntriesPerRow int, opts ...Option) *SparseMatrix {
	return NewDistributed(m, m, maxEntriesPerRow, opts...)
}

func newDynamic(rowMap, colMap *indexset.Map, entriesPerRow []int, opts []Option) (*SparseMatrix, error) {
	if entriesPerRow != nil && len(entriesPerRow) != rowMap.LocalSize() {
		return nil, &ErrDimensionMismatch{Expected: int64(rowMap.LocalSize()), Actual: int64(len(entriesPerRow))}
	}

	m := &SparseMatrix{
		rowMap: rowMap,
		colMap: colMap,
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.dynCols = make([][]int64, rowMap.LocalSize())
	m.dynVals = make([][]float64, rowMap.LocalSize())
	for i := range m.dynCols {
		capacity := 0
		if entriesPerRow != nil {
			capacity = entriesPerRow[i]
		}
		m.dynCols[i] = make([]int64, 0, capacity)
		m.dynVals[i] = make([]float64, 0, capacity)
	}
	return m, nil
}

func uniformCaps(n, c int) []int {
	caps := make([]int, n)
	for i := range caps {
		caps[i] = c
	}
	return caps
}

// M returns the global row count.
func (m *SparseMatrix) M() int64 { return m.rowMap.GlobalSize() }

// N returns the global column count.
func (m *SparseMatrix) N() int64 { return m.colMap.GlobalSize() }

// LocalSize returns the number of locally owned rows.
func (m *SparseMatrix) LocalSize() int { return m.rowMap.LocalSize() }

// LocalRange returns the smallest locally owned global row and one past the
// largest.
func (m *SparseMatrix) LocalRange() (int64, int64) { return m.rowMap.LocalRange() }

// RowMap returns the row (range) partitioning.
func (m *SparseMatrix) RowMap() *indexset.Map { return m.rowMap }

// ColMap returns the column (domain) partitioning.
func (m *SparseMatrix) ColMap() *indexset.Map { return m.colMap }

// Comm returns the communicator the matrix is distributed over.
func (m *SparseMatrix) Comm() comm.Communicator { return m.rowMap.Comm() }

// NNonzeroElements returns the number of stored entries: over all ranks when
// the structure is fixed, locally while the matrix is assembling its own
// structure.
func (m *SparseMatrix) NNonzeroElements() int64 {
	if m.g != nil {
		return m.g.GlobalNNZ()
	}
	var n int64
	for _, row := range m.dynCols {
		n += int64(len(row))
	}
	return n
}

// IsCompressed reports whether the matrix is in the finalized fill state.
func (m *SparseMatrix) IsCompressed() bool { return m.compressed }

// Compress finalizes the fill phase: it fixes the structure against the
// column (domain) and row (range) partitionings, in that order, compacts
// values alongside, and sets up the ghost-column import plan used by the
// multiply kernels. Collective; a no-op on an already compressed matrix.
func (m *SparseMatrix) Compress() error {
	if m.compressed {
		return nil
	}

	if m.g == nil {
		if err := m.compactOwnStructure(); err != nil {
			m.logger.LogCompress(context.Background(), 0, err)
			return err
		}
	} else {
		// Structure is already fixed; still a collective call.
		m.Comm().Barrier()
	}

	if m.plan == nil {
		plan, err := buildImportPlan(m.g, m.colMap)
		if err != nil {
			m.logger.LogCompress(context.Background(), 0, err)
			return err
		}
		m.plan = plan
	}

	m.compressed = true
	m.logger.LogCompress(context.Background(), m.g.GlobalNNZ(), nil)
	return nil
}

// compactOwnStructure sorts the editable per-row entries by column, builds
// the fixed graph and lays the values out in the graph's storage order.
func (m *SparseMatrix) compactOwnStructure() error {
	lengths := make([]int, len(m.dynCols))
	for i := range m.dynCols {
		sortRowEntries(m.dynCols[i], m.dynVals[i])
		lengths[i] = len(m.dynCols[i])
	}

	g, err := graph.New(m.rowMap, lengths)
	if err != nil {
		return err
	}
	for i, cols := range m.dynCols {
		if len(cols) == 0 {
			continue
		}
		global, err := m.rowMap.GlobalIndex(i)
		if err != nil {
			return err
		}
		if err := g.InsertGlobalIndices(global, cols); err != nil {
			return err
		}
	}
	if err := g.FillComplete(m.colMap, m.rowMap); err != nil {
		return err
	}

	values := make([]float64, 0, g.LocalNNZ())
	for i := range m.dynVals {
		values = append(values, m.dynVals[i]...)
	}

	m.g = g
	m.values = values
	m.dynCols, m.dynVals = nil, nil
	return nil
}

// ResumeFill reopens the editable fill phase. A no-op when the matrix is
// already editable.
func (m *SparseMatrix) ResumeFill() {
	if !m.compressed {
		return
	}
	m.compressed = false

	if m.staticGraph {
		// Structure stays fixed; values remain aligned in place.
		return
	}

	// Decompress back into growable per-row storage.
	m.dynCols = make([][]int64, m.g.LocalRows())
	m.dynVals = make([][]float64, m.g.LocalRows())
	for i := range m.dynCols {
		start, end := m.g.RowOffsets(i)
		m.dynCols[i] = append([]int64(nil), m.g.RowView(i)...)
		m.dynVals[i] = append([]float64(nil), m.values[start:end]...)
	}
	m.g = nil
	m.values = nil
	m.plan = nil
}

// Clear resets the matrix to the empty 0x0 compressed state.
func (m *SparseMatrix) Clear() {
	fresh := New()
	fresh.logger = m.logger
	*m = *fresh
}

// Print writes the locally stored entries as "(row,col) value" triples.
// The matrix must be compressed.
func (m *SparseMatrix) Print(w io.Writer) error {
	if !m.compressed {
		return ErrNotCompressed
	}
	for i := 0; i < m.g.LocalRows(); i++ {
		row, err := m.rowMap.GlobalIndex(i)
		if err != nil {
			return err
		}
		start, end := m.g.RowOffsets(i)
		cols := m.g.RowView(i)
		for k := start; k < end; k++ {
			if _, err := fmt.Fprintf(w, "(%d,%d) %g\n", row, cols[k-start], m.values[k]); err != nil {
				return err
			}
		}
	}
	return nil
}
