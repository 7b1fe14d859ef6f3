package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformVector(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVector(32)

	assert.Equal(t, 32, len(v))
	for _, x := range v {
		assert.Less(t, x, 1.0)
		assert.GreaterOrEqual(t, x, -1.0)
	}
}

func TestFillUniformRange(t *testing.T) {
	rng := NewRNG(4711)

	v := make([]float64, 16)
	rng.FillUniformRange(v, 2, 5)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 2.0)
		assert.Less(t, x, 5.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformVector(10)

	rng.Reset()
	v2 := rng.UniformVector(10)

	assert.Equal(t, v1, v2)
}

func TestRandomPatternHasDiagonal(t *testing.T) {
	rng := NewRNG(42)

	p := rng.RandomPattern(10, 0.05)
	for i := int64(0); i < 10; i++ {
		found := false
		for k := 0; k < p.RowLength(i); k++ {
			if p.ColumnNumber(i, k) == i {
				found = true
				break
			}
		}
		assert.True(t, found, "row %d misses its diagonal", i)
	}
}

func TestBandedPattern(t *testing.T) {
	p := BandedPattern(5, 1)

	assert.Equal(t, 2, p.RowLength(0))
	assert.Equal(t, 3, p.RowLength(2))
	assert.EqualValues(t, 13, p.NNonzero())
}

func TestRandomEntriesMatchPattern(t *testing.T) {
	rng := NewRNG(7)

	p := BandedPattern(6, 2)
	cols, vals := rng.RandomEntries(p)

	require.Len(t, cols, 6)
	for i := int64(0); i < 6; i++ {
		require.Equal(t, p.RowLength(i), len(cols[i]))
		require.Equal(t, len(cols[i]), len(vals[i]))
		for k, c := range cols[i] {
			assert.Equal(t, p.ColumnNumber(i, k), c)
		}
	}
}
