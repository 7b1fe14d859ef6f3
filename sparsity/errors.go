package sparsity

import "fmt"

// ErrShapeMismatch indicates a sparsity description whose declared shape
// disagrees with the partitioning it is built against.
type ErrShapeMismatch struct {
	Which   string
	Pattern int64
	Map     int64
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("sparsity: %s mismatch: pattern declares %d, partitioning has %d", e.Which, e.Pattern, e.Map)
}
