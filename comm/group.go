package comm

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group is one rank's handle on an in-process communicator. All handles of a
// group share a single synchronization state; each handle must be used by
// exactly one goroutine.
type Group struct {
	rank  int
	state *groupState
}

// groupState implements a generation-counted rendezvous: every collective is
// one round in which all ranks deposit an input, the last arrival publishes
// the combined outputs and opens the next generation.
type groupState struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	arrived int
	gen     uint64
	inputs  []any
	outputs []any
}

// NewGroup creates an in-process communicator with n ranks and returns one
// handle per rank, indexed by rank.
func NewGroup(n int) []*Group {
	if n <= 0 {
		panic(fmt.Sprintf("comm: group size must be positive, got %d", n))
	}
	st := &groupState{
		size:   n,
		inputs: make([]any, n),
	}
	st.cond = sync.NewCond(&st.mu)

	groups := make([]*Group, n)
	for i := range groups {
		groups[i] = &Group{rank: i, state: st}
	}
	return groups
}

// Run executes fn once per rank of a fresh n-rank group, one goroutine per
// rank, and returns the first error. It is the standard driver for tests and
// in-process distributed assembly.
func Run(n int, fn func(c Communicator) error) error {
	groups := NewGroup(n)

	g, _ := errgroup.WithContext(context.Background())
	for _, gc := range groups {
		g.Go(func() error {
			return fn(gc)
		})
	}
	return g.Wait()
}

// Rank returns the index of this handle's rank.
func (g *Group) Rank() int { return g.rank }

// Size returns the number of ranks in the group.
func (g *Group) Size() int { return g.state.size }

// exchange deposits in for this rank and returns all ranks' inputs once the
// whole group has arrived. Collective-ordering across ranks is the caller's
// contract; a mismatch deadlocks.
func (g *Group) exchange(in any) []any {
	s := g.state
	s.mu.Lock()
	defer s.mu.Unlock()

	myGen := s.gen
	s.inputs[g.rank] = in
	s.arrived++

	if s.arrived == s.size {
		out := make([]any, s.size)
		copy(out, s.inputs)
		s.outputs = out
		s.arrived = 0
		s.gen++
		s.cond.Broadcast()
	} else {
		for s.gen == myGen {
			s.cond.Wait()
		}
	}
	return s.outputs
}

// Barrier blocks until all ranks have reached it.
func (g *Group) Barrier() {
	g.exchange(nil)
}

// SumFloat64 returns the sum of x over all ranks.
func (g *Group) SumFloat64(x float64) float64 {
	all := g.exchange(x)
	var sum float64
	for _, v := range all {
		sum += v.(float64)
	}
	return sum
}

// SumInt64 returns the sum of x over all ranks.
func (g *Group) SumInt64(x int64) int64 {
	all := g.exchange(x)
	var sum int64
	for _, v := range all {
		sum += v.(int64)
	}
	return sum
}

// MaxInt64 returns the maximum of x over all ranks.
func (g *Group) MaxInt64(x int64) int64 {
	all := g.exchange(x)
	best := all[0].(int64)
	for _, v := range all[1:] {
		if m := v.(int64); m > best {
			best = m
		}
	}
	return best
}

// AllGatherInt64 gathers each rank's slice, indexed by rank.
func (g *Group) AllGatherInt64(vals []int64) [][]int64 {
	all := g.exchange(vals)
	out := make([][]int64, len(all))
	for i, v := range all {
		if v != nil {
			out[i] = v.([]int64)
		}
	}
	return out
}

// AllToAllInt64 exchanges one slice per destination rank.
func (g *Group) AllToAllInt64(send [][]int64) [][]int64 {
	all := g.exchange(send)
	recv := make([][]int64, g.state.size)
	for j, v := range all {
		sent := v.([][]int64)
		recv[j] = sent[g.rank]
	}
	return recv
}

// AllToAllFloat64 exchanges one slice per destination rank.
func (g *Group) AllToAllFloat64(send [][]float64) [][]float64 {
	all := g.exchange(send)
	recv := make([][]float64, g.state.size)
	for j, v := range all {
		sent := v.([][]float64)
		recv[j] = sent[g.rank]
	}
	return recv
}
