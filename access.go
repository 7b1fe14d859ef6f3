package matgo

// Element looks up the value stored at a global position. The matrix must
// be compressed. When tolerant is true, positions outside the locally owned
// rows or outside the column range read as zero instead of failing; in
// either mode a position inside the owned range that is absent from the
// structure behaves the same way: zero when tolerant, an error otherwise.
func (m *SparseMatrix) Element(i, j int64, tolerant bool) (float64, error) {
	if !m.compressed {
		return 0, ErrNotCompressed
	}

	local, owned := m.rowMap.LocalIndex(i)
	if !owned || j < 0 || j >= m.N() {
		if tolerant {
			return 0, nil
		}
		first, last := m.rowMap.LocalRange()
		return 0, &ErrAccessToNonLocalElement{Row: i, Col: j, First: first, Last: last}
	}

	slot, ok := m.g.FindLocal(local, j)
	if !ok {
		if tolerant {
			return 0, nil
		}
		return 0, &ErrEntryNotInPattern{Row: i, Col: j}
	}
	return m.values[slot], nil
}

// At returns the value at (i, j), failing on positions this rank does not
// store.
func (m *SparseMatrix) At(i, j int64) (float64, error) {
	return m.Element(i, j, false)
}

// El returns the value at (i, j), reading zero for positions this rank
// does not store.
func (m *SparseMatrix) El(i, j int64) (float64, error) {
	return m.Element(i, j, true)
}

// Dims returns the global shape.
func (m *SparseMatrix) Dims() (int64, int64) { return m.M(), m.N() }

// Row returns a view of the columns and values stored for a local row of a
// compressed matrix. A SparseMatrix thereby serves as a RowMatrix reinit
// source. The returned slices must not be mutated.
func (m *SparseMatrix) Row(local int) ([]int64, []float64) {
	start, end := m.g.RowOffsets(local)
	return m.g.RowView(local), m.values[start:end]
}

// DiagElement returns the value on the main diagonal of row i. The matrix
// must be square.
func (m *SparseMatrix) DiagElement(i int64) (float64, error) {
	if m.M() != m.N() {
		return 0, ErrNotQuadratic
	}
	return m.Element(i, i, false)
}
