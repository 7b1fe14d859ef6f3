package matgo

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/matgo/comm"
	"github.com/hupe1980/matgo/indexset"
)

// tridiagonal builds the n x n stencil with 2 on the diagonal and -1 on
// both off-diagonals, compressed.
func tridiagonal(t *testing.T, n int64) *SparseMatrix {
	t.Helper()

	m := NewSerial(n, n, 3)
	for i := int64(0); i < n; i++ {
		cols := []int64{i}
		vals := []float64{2}
		if i > 0 {
			cols = append(cols, i-1)
			vals = append(vals, -1)
		}
		if i < n-1 {
			cols = append(cols, i+1)
			vals = append(vals, -1)
		}
		require.NoError(t, m.Set(i, cols, vals, false))
	}
	require.NoError(t, m.Compress())
	return m
}

func TestNewIsEmptyAndCompressed(t *testing.T) {
	m := New()
	assert.EqualValues(t, 0, m.M())
	assert.EqualValues(t, 0, m.N())
	assert.True(t, m.IsCompressed())
	assert.EqualValues(t, 0, m.NNonzeroElements())
}

func TestSetCompressRoundTrip(t *testing.T) {
	m := tridiagonal(t, 4)

	assert.EqualValues(t, 10, m.NNonzeroElements())
	assert.True(t, m.IsCompressed())

	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = m.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestCompressIsIdempotent(t *testing.T) {
	m := tridiagonal(t, 3)
	require.NoError(t, m.Compress())
	assert.EqualValues(t, 7, m.NNonzeroElements())
}

func TestResumeFillKeepsEntries(t *testing.T) {
	m := tridiagonal(t, 3)

	m.ResumeFill()
	assert.False(t, m.IsCompressed())
	require.NoError(t, m.Set(1, []int64{1}, []float64{9}, false))
	require.NoError(t, m.Compress())

	v, err := m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	v, err = m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestZeroElision(t *testing.T) {
	m := NewSerial(2, 2, 2)
	require.NoError(t, m.Set(0, []int64{0, 1}, []float64{1, 0}, true))
	require.NoError(t, m.Set(1, []int64{0, 1}, []float64{0, 1}, false))
	require.NoError(t, m.Compress())

	// The elided zero never became an entry.
	assert.EqualValues(t, 3, m.NNonzeroElements())

	_, err := m.At(0, 1)
	var nip *ErrEntryNotInPattern
	require.ErrorAs(t, err, &nip)

	v, err := m.El(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// The explicit zero did.
	v, err = m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestAddAccumulates(t *testing.T) {
	m := NewSerial(2, 2, 2)
	require.NoError(t, m.Set(0, []int64{0}, []float64{1.5}, false))
	require.NoError(t, m.Add(0, []int64{0}, []float64{2.5}, false))
	require.NoError(t, m.Compress())

	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestAddAllZerosElidedIsNoop(t *testing.T) {
	m := NewSerial(2, 2, 2)
	require.NoError(t, m.Add(0, []int64{0, 1}, []float64{0, 0}, true))
	require.NoError(t, m.Compress())
	assert.EqualValues(t, 0, m.NNonzeroElements())
}

func TestAddColumnOutOfRangeLeavesStateUnchanged(t *testing.T) {
	m := NewSerial(2, 2, 2)
	require.NoError(t, m.Set(0, []int64{0}, []float64{1}, false))

	err := m.Add(0, []int64{0, 7}, []float64{1, 1}, false)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)

	require.NoError(t, m.Compress())
	assert.EqualValues(t, 1, m.NNonzeroElements())
	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestSetNonFiniteRejected(t *testing.T) {
	m := NewSerial(1, 1, 1)
	err := m.Set(0, []int64{0}, []float64{math.NaN()}, false)
	var nf *ErrNonFiniteValue
	require.ErrorAs(t, err, &nf)

	err = m.Set(0, []int64{0}, []float64{math.Inf(1)}, true)
	require.ErrorAs(t, err, &nf)
}

func TestSetOnStaticGraphOutsidePattern(t *testing.T) {
	m := tridiagonal(t, 3)
	err := m.Set(0, []int64{2}, []float64{1}, false)
	var nip *ErrEntryNotInPattern
	require.ErrorAs(t, err, &nip)
}

func TestElementTolerantAndNot(t *testing.T) {
	m := tridiagonal(t, 3)

	v, err := m.Element(0, 99, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = m.Element(0, 99, false)
	var nl *ErrAccessToNonLocalElement
	require.ErrorAs(t, err, &nl)

	d, err := m.DiagElement(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d)
}

func TestDiagElementRequiresSquare(t *testing.T) {
	m := NewSerial(2, 3, 1)
	require.NoError(t, m.Compress())
	_, err := m.DiagElement(0)
	require.ErrorIs(t, err, ErrNotQuadratic)
}

func TestScaleAndDivide(t *testing.T) {
	m := tridiagonal(t, 3)
	require.NoError(t, m.Scale(2))

	v, err := m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	require.NoError(t, m.DivideBy(4))
	v, err = m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	require.ErrorIs(t, m.DivideBy(0), ErrDivideByZero)
}

func TestAssignScalar(t *testing.T) {
	m := tridiagonal(t, 3)
	require.ErrorIs(t, m.Assign(1), ErrScalarAssignmentOnlyForZero)

	require.NoError(t, m.Assign(0))
	assert.EqualValues(t, 7, m.NNonzeroElements())
	v, err := m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestAddScaled(t *testing.T) {
	a := tridiagonal(t, 3)
	b := tridiagonal(t, 3)

	require.NoError(t, a.AddScaled(2, b))

	v, err := a.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	v, err = a.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)
}

func TestCopyFromSharesStructure(t *testing.T) {
	a := tridiagonal(t, 3)
	b := New()
	b.CopyFrom(a)

	require.NoError(t, b.Scale(10))

	// a's values are untouched by scaling the copy.
	v, err := a.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
	v, err = b.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
}

func TestFrobeniusNorm(t *testing.T) {
	m := NewSerial(3, 3, 1)
	require.NoError(t, m.Set(0, []int64{0}, []float64{2}, false))
	require.NoError(t, m.Set(1, []int64{1}, []float64{3}, false))
	require.NoError(t, m.Set(2, []int64{2}, []float64{4}, false))
	require.NoError(t, m.Compress())

	norm, err := m.FrobeniusNorm()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(29), norm, 1e-12)
}

func TestClear(t *testing.T) {
	m := tridiagonal(t, 3)
	m.Clear()
	assert.EqualValues(t, 0, m.M())
	assert.True(t, m.IsCompressed())
}

func TestPrint(t *testing.T) {
	m := NewSerial(2, 2, 1)
	require.NoError(t, m.Set(0, []int64{0}, []float64{1.5}, false))
	require.NoError(t, m.Compress())

	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf))
	assert.Equal(t, "(0,0) 1.5\n", buf.String())
}

func TestDistributedAssembly(t *testing.T) {
	const n = 6

	err := comm.Run(2, func(c comm.Communicator) error {
		s := indexset.New(n)
		require.NoError(t, s.AddRange(int64(c.Rank()*3), int64(c.Rank()*3+3)))
		part, err := s.MakeMap(c)
		require.NoError(t, err)

		m := NewPartitioned(part, 3)
		for g := range part.Owned().Elements() {
			cols := []int64{g}
			vals := []float64{2}
			if g > 0 {
				cols = append(cols, g-1)
				vals = append(vals, -1)
			}
			if g < n-1 {
				cols = append(cols, g+1)
				vals = append(vals, -1)
			}
			require.NoError(t, m.Set(g, cols, vals, false))
		}
		require.NoError(t, m.Compress())

		assert.EqualValues(t, 16, m.NNonzeroElements())

		norm, err := m.FrobeniusNorm()
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(6*4+10), norm, 1e-12)
		return nil
	})
	require.NoError(t, err)
}

func TestSetRejectsNonLocalRow(t *testing.T) {
	const n = 4

	err := comm.Run(2, func(c comm.Communicator) error {
		s := indexset.New(n)
		require.NoError(t, s.AddRange(int64(c.Rank()*2), int64(c.Rank()*2+2)))
		part, err := s.MakeMap(c)
		require.NoError(t, err)

		m := NewPartitioned(part, 2)
		other := int64((c.Rank() + 1) % 2 * 2)
		setErr := m.Set(other, []int64{0}, []float64{1}, false)
		var nl *ErrAccessToNonLocalElement
		require.ErrorAs(t, setErr, &nl)

		require.NoError(t, m.Compress())
		return nil
	})
	require.NoError(t, err)
}
