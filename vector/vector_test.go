package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/matgo/comm"
	"github.com/hupe1980/matgo/indexset"
)

func TestVectorSerial(t *testing.T) {
	v := New(indexset.SelfMap(4))

	require.NoError(t, v.SetGlobal(0, 1))
	require.NoError(t, v.SetGlobal(3, -2))

	x, err := v.GetGlobal(3)
	require.NoError(t, err)
	assert.Equal(t, -2.0, x)

	w := v.Clone()
	dot, err := v.Dot(w)
	require.NoError(t, err)
	assert.Equal(t, 5.0, dot)

	assert.InDelta(t, 2.2360679, v.Norm2(), 1e-6)

	require.NoError(t, v.AXPY(2, w))
	x, _ = v.GetGlobal(0)
	assert.Equal(t, 3.0, x)
}

func TestVectorNotOwned(t *testing.T) {
	v := New(indexset.SelfMap(2))
	err := v.SetGlobal(5, 1)
	var no *indexset.ErrNotOwned
	require.ErrorAs(t, err, &no)
}

func TestVectorDistributedDot(t *testing.T) {
	const n = 6

	err := comm.Run(3, func(c comm.Communicator) error {
		s := indexset.New(n)
		require.NoError(t, s.AddRange(int64(c.Rank()*2), int64(c.Rank()*2+2)))
		m, err := s.MakeMap(c)
		require.NoError(t, err)

		v := New(m)
		w := New(m)
		for g := range m.Owned().Elements() {
			require.NoError(t, v.SetGlobal(g, float64(g)))
			require.NoError(t, w.SetGlobal(g, 1))
		}

		dot, err := v.Dot(w)
		require.NoError(t, err)
		assert.Equal(t, 15.0, dot) // 0+1+2+3+4+5

		return nil
	})
	require.NoError(t, err)
}

func TestVectorMapMismatch(t *testing.T) {
	v := New(indexset.SelfMap(2))
	w := New(indexset.SelfMap(3))

	_, err := v.Dot(w)
	var mm *ErrMapMismatch
	require.ErrorAs(t, err, &mm)
}
