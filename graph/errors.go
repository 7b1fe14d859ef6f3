package graph

import (
	"errors"
	"fmt"
)

// ErrFilled is returned when structure mutation is attempted after
// FillComplete.
var ErrFilled = errors.New("graph: structure is filled and immutable")

// ErrNilMap is returned when FillComplete is called without domain or range
// map.
var ErrNilMap = errors.New("graph: domain and range maps are required")

// ErrRowCountMismatch indicates a per-row capacity slice whose length does
// not match the number of locally owned rows.
type ErrRowCountMismatch struct {
	Declared int
	Local    int
}

func (e *ErrRowCountMismatch) Error() string {
	return fmt.Sprintf("graph: %d per-row capacities for %d local rows", e.Declared, e.Local)
}

// ErrMapMismatch indicates a map incompatible with the graph's distribution.
type ErrMapMismatch struct {
	Which    string
	Expected int64
	Actual   int64
}

func (e *ErrMapMismatch) Error() string {
	return fmt.Sprintf("graph: %s map mismatch: expected global size %d, got %d", e.Which, e.Expected, e.Actual)
}
