// Package testutil provides seeded random generators for sparsity patterns,
// matrix entries and vectors used across the test suites.
package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/matgo/sparsity"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// UniformVector generates a random vector with values in [-1, 1).
func (r *RNG) UniformVector(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]float64, n)
	for i := range v {
		v[i] = r.rand.Float64()*2 - 1
	}
	return v
}

// RandomPattern generates an n x n sparsity pattern with the main diagonal
// plus roughly fill*n*n random off-diagonal positions.
func (r *RNG) RandomPattern(n int64, fill float64) *sparsity.Dynamic {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := sparsity.NewDynamic(n, n)
	for i := int64(0); i < n; i++ {
		_ = d.Add(i, i)
	}
	extra := int(fill * float64(n) * float64(n))
	for k := 0; k < extra; k++ {
		_ = d.Add(int64(r.rand.Intn(int(n))), int64(r.rand.Intn(int(n))))
	}
	return d
}

// BandedPattern generates an n x n pattern with the given half bandwidth.
func BandedPattern(n int64, band int64) *sparsity.Dynamic {
	d := sparsity.NewDynamic(n, n)
	for i := int64(0); i < n; i++ {
		lo := max(i-band, 0)
		hi := min(i+band, n-1)
		for j := lo; j <= hi; j++ {
			_ = d.Add(i, j)
		}
	}
	return d
}

// RandomEntries draws one random value in [-1, 1) per position of a
// pattern, returned as per-row column and value lists.
func (r *RNG) RandomEntries(p sparsity.Pattern) ([][]int64, [][]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := p.NumRows()
	cols := make([][]int64, n)
	vals := make([][]float64, n)
	for i := int64(0); i < n; i++ {
		rl := p.RowLength(i)
		cols[i] = make([]int64, rl)
		vals[i] = make([]float64, rl)
		for k := 0; k < rl; k++ {
			cols[i][k] = p.ColumnNumber(i, k)
			vals[i][k] = r.rand.Float64()*2 - 1
		}
	}
	return cols, vals
}
