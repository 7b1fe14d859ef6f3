package matgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCompressed is returned when an operation requires a finalized
	// (compressed) matrix.
	ErrNotCompressed = errors.New("matrix is not compressed")

	// ErrSourceEqualsDestination is returned when a multiply is asked to
	// write its result into its own operand.
	ErrSourceEqualsDestination = errors.New("source and destination vectors must differ")

	// ErrDivideByZero is returned by DivideBy(0).
	ErrDivideByZero = errors.New("division by zero")

	// ErrNotQuadratic is returned when a square matrix is required.
	ErrNotQuadratic = errors.New("matrix is not quadratic")

	// ErrScalarAssignmentOnlyForZero is returned when a scalar other than
	// zero is assigned to the whole matrix.
	ErrScalarAssignmentOnlyForZero = errors.New("scalar assignment is only defined for zero")
)

// ErrDimensionMismatch indicates mismatching dimensions between two operands.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int64
	Actual   int64
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrNonFiniteValue indicates a NaN or infinite value entering Set or Add.
type ErrNonFiniteValue struct {
	Row   int64
	Col   int64
	Value float64
}

func (e *ErrNonFiniteValue) Error() string {
	return fmt.Sprintf("non-finite value %v at (%d, %d)", e.Value, e.Row, e.Col)
}

// ErrEntryNotInPattern indicates a write to a (row, col) position absent
// from a fixed sparsity structure.
type ErrEntryNotInPattern struct {
	Row int64
	Col int64
}

func (e *ErrEntryNotInPattern) Error() string {
	return fmt.Sprintf("entry (%d, %d) is not part of the fixed sparsity structure", e.Row, e.Col)
}

// ErrAccessToNonLocalElement indicates element access outside the locally
// owned block.
type ErrAccessToNonLocalElement struct {
	Row   int64
	Col   int64
	First int64
	Last  int64
}

func (e *ErrAccessToNonLocalElement) Error() string {
	return fmt.Sprintf("element (%d, %d) is not locally accessible: local rows are [%d, %d)",
		e.Row, e.Col, e.First, e.Last)
}

// ErrMapMismatch indicates an operand whose distribution does not match the
// map an operation requires.
type ErrMapMismatch struct {
	Which string
}

func (e *ErrMapMismatch) Error() string {
	return fmt.Sprintf("distribution mismatch: operand does not match the %s map", e.Which)
}
