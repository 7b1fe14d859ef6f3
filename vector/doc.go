// Package vector provides the distributed vector operand consumed by the
// matrix multiply and norm operations.
//
// A Vector owns the values of the indices its Map assigns to the calling
// rank, stored densely in map order. Dot and Norm2 are collective; all other
// operations are rank-local.
package vector
