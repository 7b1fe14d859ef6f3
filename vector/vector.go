package vector

import (
	"fmt"
	"math"

	"github.com/hupe1980/matgo/indexset"
)

// ErrMapMismatch indicates two vectors with different distributions.
type ErrMapMismatch struct {
	Left, Right int64
}

func (e *ErrMapMismatch) Error() string {
	return fmt.Sprintf("vector: distribution mismatch: global sizes %d and %d", e.Left, e.Right)
}

// Vector is a map-distributed dense vector.
type Vector struct {
	m      *indexset.Map
	values []float64
}

// New creates a zero vector distributed by m.
func New(m *indexset.Map) *Vector {
	return &Vector{
		m:      m,
		values: make([]float64, m.LocalSize()),
	}
}

// Map returns the distribution of the vector.
func (v *Vector) Map() *indexset.Map { return v.m }

// Size returns the global length.
func (v *Vector) Size() int64 { return v.m.GlobalSize() }

// Local returns the locally owned values in map order. Mutations write
// through to the vector.
func (v *Vector) Local() []float64 { return v.values }

// SetGlobal stores x at a locally owned global index.
func (v *Vector) SetGlobal(global int64, x float64) error {
	local, ok := v.m.LocalIndex(global)
	if !ok {
		return &indexset.ErrNotOwned{Index: global, Rank: v.m.Comm().Rank()}
	}
	v.values[local] = x
	return nil
}

// GetGlobal reads the value at a locally owned global index.
func (v *Vector) GetGlobal(global int64) (float64, error) {
	local, ok := v.m.LocalIndex(global)
	if !ok {
		return 0, &indexset.ErrNotOwned{Index: global, Rank: v.m.Comm().Rank()}
	}
	return v.values[local], nil
}

// SetAll assigns x to every locally owned entry.
func (v *Vector) SetAll(x float64) {
	for i := range v.values {
		v.values[i] = x
	}
}

// Dot returns the scalar product with w. Collective over the vector's
// communicator; both vectors must share a distribution.
func (v *Vector) Dot(w *Vector) (float64, error) {
	if !v.m.SameAs(w.m) {
		return 0, &ErrMapMismatch{Left: v.Size(), Right: w.Size()}
	}
	var local float64
	for i, x := range v.values {
		local += x * w.values[i]
	}
	return v.m.Comm().SumFloat64(local), nil
}

// Norm2 returns the Euclidean norm. Collective.
func (v *Vector) Norm2() float64 {
	var local float64
	for _, x := range v.values {
		local += x * x
	}
	return math.Sqrt(v.m.Comm().SumFloat64(local))
}

// AXPY computes v = v + a*w in place.
func (v *Vector) AXPY(a float64, w *Vector) error {
	if !v.m.SameAs(w.m) {
		return &ErrMapMismatch{Left: v.Size(), Right: w.Size()}
	}
	for i := range v.values {
		v.values[i] += a * w.values[i]
	}
	return nil
}

// Equal reports whether the local parts of two vectors agree entry by
// entry within tol. Local only; distributions must match.
func (v *Vector) Equal(w *Vector, tol float64) bool {
	if !v.m.SameAs(w.m) {
		return false
	}
	for i, x := range v.values {
		if math.Abs(x-w.values[i]) > tol {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing the distribution.
func (v *Vector) Clone() *Vector {
	out := New(v.m)
	copy(out.values, v.values)
	return out
}
