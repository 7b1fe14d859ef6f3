package matgo

import (
	"context"
	"slices"

	"github.com/hupe1980/matgo/comm"
	"github.com/hupe1980/matgo/graph"
	"github.com/hupe1980/matgo/indexset"
	"github.com/hupe1980/matgo/vector"
)

// importPlan resolves the column indices stored in the fixed structure
// against a source vector distributed by the column map. Columns this rank
// owns read straight out of the local vector storage; the rest are fetched
// into a ghost buffer before every multiply.
//
// slots carries one entry per storage slot: a value >= 0 is a local source
// index, a negative value v addresses ghost position -(v+1). The ghost
// buffer is the concatenation of the per-owner request lists in rank order,
// so recvVals[r] in the forward exchange lines up with req[r] position by
// position, and the reverse exchange lines up with exp[r] the same way.
type importPlan struct {
	slots  []int
	req    [][]int64 // global columns needed from each rank, ascending
	exp    [][]int   // local indices each rank reads from us
	nGhost int
}

func emptyImportPlan() *importPlan {
	return &importPlan{req: make([][]int64, 1), exp: make([][]int, 1)}
}

// buildImportPlan is collective: every rank announces which remote columns
// its structure references and learns which of its own columns the other
// ranks need.
func buildImportPlan(g *graph.Graph, colMap *indexset.Map) (*importPlan, error) {
	c := colMap.Comm()

	// Sorted unique non-owned columns referenced anywhere in the structure.
	var ghosts []int64
	for i := 0; i < g.LocalRows(); i++ {
		for _, col := range g.RowView(i) {
			if !colMap.IsOwned(col) {
				ghosts = append(ghosts, col)
			}
		}
	}
	slices.Sort(ghosts)
	ghosts = slices.Compact(ghosts)

	req := make([][]int64, c.Size())
	for _, col := range ghosts {
		owner, ok := colMap.Owner(col)
		if !ok {
			return nil, &ErrDimensionMismatch{Expected: colMap.GlobalSize(), Actual: col}
		}
		req[owner] = append(req[owner], col)
	}

	ghostIdx := make(map[int64]int, len(ghosts))
	n := 0
	for _, perRank := range req {
		for _, col := range perRank {
			ghostIdx[col] = n
			n++
		}
	}

	wanted := c.AllToAllInt64(req)
	exp := make([][]int, c.Size())
	for r, globals := range wanted {
		exp[r] = make([]int, len(globals))
		for i, col := range globals {
			local, ok := colMap.LocalIndex(col)
			if !ok {
				return nil, &ErrMapMismatch{Which: "column"}
			}
			exp[r][i] = local
		}
	}

	slots := make([]int, 0, g.LocalNNZ())
	for i := 0; i < g.LocalRows(); i++ {
		for _, col := range g.RowView(i) {
			if local, ok := colMap.LocalIndex(col); ok {
				slots = append(slots, local)
			} else {
				slots = append(slots, -(ghostIdx[col] + 1))
			}
		}
	}

	return &importPlan{slots: slots, req: req, exp: exp, nGhost: n}, nil
}

// gather fetches the ghost column values for one multiply. Collective even
// when this rank needs nothing.
func (p *importPlan) gather(c comm.Communicator, src []float64) []float64 {
	send := make([][]float64, len(p.exp))
	for r, locals := range p.exp {
		send[r] = make([]float64, len(locals))
		for i, l := range locals {
			send[r][i] = src[l]
		}
	}
	recv := c.AllToAllFloat64(send)

	ghost := make([]float64, p.nGhost)
	off := 0
	for r := range p.req {
		copy(ghost[off:], recv[r])
		off += len(p.req[r])
	}
	return ghost
}

// scatterAdd is the reverse path: per-ghost contributions accumulated
// locally are shipped back to the owning ranks and added into dst there.
func (p *importPlan) scatterAdd(c comm.Communicator, ghost, dst []float64) {
	send := make([][]float64, len(p.req))
	off := 0
	for r := range p.req {
		send[r] = ghost[off : off+len(p.req[r])]
		off += len(p.req[r])
	}
	recv := c.AllToAllFloat64(send)
	for r, vals := range recv {
		for i, v := range vals {
			dst[p.exp[r][i]] += v
		}
	}
}

// Vmult computes dst = A * src.
func (m *SparseMatrix) Vmult(dst, src *vector.Vector) error {
	return m.apply(dst, src, false, 0)
}

// VmultAdd computes dst += A * src.
func (m *SparseMatrix) VmultAdd(dst, src *vector.Vector) error {
	return m.apply(dst, src, false, 1)
}

// Tvmult computes dst = A^T * src.
func (m *SparseMatrix) Tvmult(dst, src *vector.Vector) error {
	return m.apply(dst, src, true, 0)
}

// TvmultAdd computes dst += A^T * src.
func (m *SparseMatrix) TvmultAdd(dst, src *vector.Vector) error {
	return m.apply(dst, src, true, 1)
}

// apply is the shared multiply kernel. beta selects overwrite (0) or
// accumulate (1) semantics for the destination.
func (m *SparseMatrix) apply(dst, src *vector.Vector, transpose bool, beta float64) error {
	if !m.compressed {
		return ErrNotCompressed
	}
	if dst == src {
		return ErrSourceEqualsDestination
	}

	srcMap, dstMap := m.colMap, m.rowMap
	if transpose {
		srcMap, dstMap = dstMap, srcMap
	}
	if !src.Map().SameAs(srcMap) {
		return &ErrMapMismatch{Which: "source"}
	}
	if !dst.Map().SameAs(dstMap) {
		return &ErrMapMismatch{Which: "destination"}
	}

	m.logger.LogMultiply(context.Background(), transpose, nil)

	c := m.Comm()
	x := src.Local()
	y := dst.Local()

	if transpose {
		acc := make([]float64, len(y))
		ghost := make([]float64, m.plan.nGhost)
		k := 0
		for i := 0; i < m.g.LocalRows(); i++ {
			xi := x[i]
			_, end := m.g.RowOffsets(i)
			for ; k < end; k++ {
				if s := m.plan.slots[k]; s >= 0 {
					acc[s] += m.values[k] * xi
				} else {
					ghost[-s-1] += m.values[k] * xi
				}
			}
		}
		m.plan.scatterAdd(c, ghost, acc)
		for j := range y {
			y[j] = beta*y[j] + acc[j]
		}
		return nil
	}

	ghost := m.plan.gather(c, x)
	k := 0
	for i := 0; i < m.g.LocalRows(); i++ {
		_, end := m.g.RowOffsets(i)
		var sum float64
		for ; k < end; k++ {
			if s := m.plan.slots[k]; s >= 0 {
				sum += m.values[k] * x[s]
			} else {
				sum += m.values[k] * ghost[-s-1]
			}
		}
		y[i] = beta*y[i] + sum
	}
	return nil
}
