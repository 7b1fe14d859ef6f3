package matgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/matgo/comm"
	"github.com/hupe1980/matgo/indexset"
	"github.com/hupe1980/matgo/testutil"
	"github.com/hupe1980/matgo/vector"
)

func TestVmultSerial(t *testing.T) {
	m := tridiagonal(t, 4)

	x := vector.New(m.ColMap())
	y := vector.New(m.RowMap())
	for i := int64(0); i < 4; i++ {
		require.NoError(t, x.SetGlobal(i, 1))
	}

	require.NoError(t, m.Vmult(y, x))

	// Row sums of the stencil: 1 at the ends, 0 inside.
	want := []float64{1, 0, 0, 1}
	for i := int64(0); i < 4; i++ {
		v, err := y.GetGlobal(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], v)
	}
}

func TestVmultAddAccumulates(t *testing.T) {
	m := tridiagonal(t, 3)

	x := vector.New(m.ColMap())
	y := vector.New(m.RowMap())
	require.NoError(t, x.SetGlobal(1, 1))
	y.SetAll(10)

	require.NoError(t, m.VmultAdd(y, x))

	want := []float64{9, 12, 9}
	for i := int64(0); i < 3; i++ {
		v, err := y.GetGlobal(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], v)
	}
}

func TestVmultRequiresCompressed(t *testing.T) {
	m := NewSerial(2, 2, 1)
	x := vector.New(indexset.SelfMap(2))
	y := vector.New(indexset.SelfMap(2))
	require.ErrorIs(t, m.Vmult(y, x), ErrNotCompressed)
}

func TestVmultRejectsAliasedVectors(t *testing.T) {
	m := tridiagonal(t, 2)
	x := vector.New(m.ColMap())
	require.ErrorIs(t, m.Vmult(x, x), ErrSourceEqualsDestination)
}

func TestVmultChecksMaps(t *testing.T) {
	m := tridiagonal(t, 3)
	x := vector.New(indexset.SelfMap(5))
	y := vector.New(m.RowMap())

	err := m.Vmult(y, x)
	var mm *ErrMapMismatch
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "source", mm.Which)
}

func TestTvmultRectangular(t *testing.T) {
	// 2x3 matrix: [1 2 0; 0 0 3].
	m := NewSerial(2, 3, 2)
	require.NoError(t, m.Set(0, []int64{0, 1}, []float64{1, 2}, false))
	require.NoError(t, m.Set(1, []int64{2}, []float64{3}, false))
	require.NoError(t, m.Compress())

	x := vector.New(m.RowMap())
	y := vector.New(m.ColMap())
	require.NoError(t, x.SetGlobal(0, 1))
	require.NoError(t, x.SetGlobal(1, 2))

	require.NoError(t, m.Tvmult(y, x))

	want := []float64{1, 2, 6}
	for j := int64(0); j < 3; j++ {
		v, err := y.GetGlobal(j)
		require.NoError(t, err)
		assert.Equal(t, want[j], v)
	}
}

func TestVmultLinearity(t *testing.T) {
	m := tridiagonal(t, 5)

	x1 := vector.New(m.ColMap())
	x2 := vector.New(m.ColMap())
	for i := int64(0); i < 5; i++ {
		require.NoError(t, x1.SetGlobal(i, float64(i)))
		require.NoError(t, x2.SetGlobal(i, float64(5-i)))
	}

	// A(2*x1 + x2) == 2*A*x1 + A*x2
	lhsIn := x1.Clone()
	for i, v := range lhsIn.Local() {
		lhsIn.Local()[i] = 2*v + x2.Local()[i]
	}
	lhs := vector.New(m.RowMap())
	require.NoError(t, m.Vmult(lhs, lhsIn))

	y1 := vector.New(m.RowMap())
	y2 := vector.New(m.RowMap())
	require.NoError(t, m.Vmult(y1, x1))
	require.NoError(t, m.Vmult(y2, x2))

	for i := range lhs.Local() {
		assert.InDelta(t, 2*y1.Local()[i]+y2.Local()[i], lhs.Local()[i], 1e-12)
	}
}

// (A x) . y == x . (A^T y) for arbitrary x, y.
func TestAdjointIdentity(t *testing.T) {
	m := NewSerial(3, 4, 3)
	require.NoError(t, m.Set(0, []int64{0, 2}, []float64{1, -2}, false))
	require.NoError(t, m.Set(1, []int64{1, 3}, []float64{4, 0.5}, false))
	require.NoError(t, m.Set(2, []int64{0, 3}, []float64{-1, 3}, false))
	require.NoError(t, m.Compress())

	x := vector.New(m.ColMap())
	y := vector.New(m.RowMap())
	for j := int64(0); j < 4; j++ {
		require.NoError(t, x.SetGlobal(j, float64(j+1)))
	}
	for i := int64(0); i < 3; i++ {
		require.NoError(t, y.SetGlobal(i, float64(2*i-1)))
	}

	ax := vector.New(m.RowMap())
	require.NoError(t, m.Vmult(ax, x))
	aty := vector.New(m.ColMap())
	require.NoError(t, m.Tvmult(aty, y))

	lhs, err := ax.Dot(y)
	require.NoError(t, err)
	rhs, err := x.Dot(aty)
	require.NoError(t, err)
	assert.InDelta(t, lhs, rhs, 1e-12)
}

func TestAdjointIdentityRandom(t *testing.T) {
	const n = 20
	rng := testutil.NewRNG(42)

	p := rng.RandomPattern(n, 0.1)
	cols, vals := rng.RandomEntries(p)

	m := New()
	require.NoError(t, m.Reinit(p))
	for i := int64(0); i < n; i++ {
		require.NoError(t, m.Set(i, cols[i], vals[i], false))
	}
	require.NoError(t, m.Compress())

	x := vector.New(m.ColMap())
	y := vector.New(m.RowMap())
	copy(x.Local(), rng.UniformVector(n))
	copy(y.Local(), rng.UniformVector(n))

	ax := vector.New(m.RowMap())
	require.NoError(t, m.Vmult(ax, x))
	aty := vector.New(m.ColMap())
	require.NoError(t, m.Tvmult(aty, y))

	lhs, err := ax.Dot(y)
	require.NoError(t, err)
	rhs, err := x.Dot(aty)
	require.NoError(t, err)
	assert.InDelta(t, lhs, rhs, 1e-10)
}

func TestMatrixScalarProduct(t *testing.T) {
	m := tridiagonal(t, 3)

	u := vector.New(m.RowMap())
	v := vector.New(m.ColMap())
	for i := int64(0); i < 3; i++ {
		require.NoError(t, u.SetGlobal(i, 1))
		require.NoError(t, v.SetGlobal(i, float64(i)))
	}

	// A*v = (-1, 0, 3), summed against ones: 2.
	s, err := m.MatrixScalarProduct(u, v)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s, 1e-12)

	ns, err := m.MatrixNormSquare(u)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ns, 1e-12)
}

func TestVmultDistributed(t *testing.T) {
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

		x := vector.New(part)
		y := vector.New(part)
		for g := range part.Owned().Elements() {
			require.NoError(t, x.SetGlobal(g, float64(g)))
		}

		// The stencil applied to x_i = i gives 0 except at the ends.
		require.NoError(t, m.Vmult(y, x))
		for g := range part.Owned().Elements() {
			v, err := y.GetGlobal(g)
			require.NoError(t, err)
			switch g {
			case 0:
				assert.Equal(t, -1.0, v)
			case n - 1:
				assert.Equal(t, float64(n), v)
			default:
				assert.Equal(t, 0.0, v)
			}
		}

		// The stencil is symmetric, so the transpose gives the same.
		z := vector.New(part)
		require.NoError(t, m.Tvmult(z, x))
		assert.True(t, y.Equal(z, 1e-12))
		return nil
	})
	require.NoError(t, err)
}

func TestVmultDistributedRoundRobin(t *testing.T) {
	// Interleaved ownership forces ghost traffic on nearly every row.
	const n = 8

	err := comm.Run(2, func(c comm.Communicator) error {
		s := indexset.New(n)
		for g := int64(c.Rank()); g < n; g += 2 {
			require.NoError(t, s.Add(g))
		}
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

		x := vector.New(part)
		y := vector.New(part)
		for g := range part.Owned().Elements() {
			require.NoError(t, x.SetGlobal(g, 1))
		}

		require.NoError(t, m.Vmult(y, x))
		for g := range part.Owned().Elements() {
			v, err := y.GetGlobal(g)
			require.NoError(t, err)
			if g == 0 || g == n-1 {
				assert.Equal(t, 1.0, v)
			} else {
				assert.Equal(t, 0.0, v)
			}
		}
		return nil
	})
	require.NoError(t, err)
}
