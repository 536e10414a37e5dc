package ribbon

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/clubcard/internal/bitset"
)

// Epsilon is the fixed row-table overhead: a block encoding n equations
// reserves floor((1+Epsilon)*n) rows.
const Epsilon = 0.02

// TableSize returns the row-table size for a block encoding size equations.
func TableSize(size int) int {
	return int(math.Floor((1 + Epsilon) * float64(size)))
}

// MaxRank bounds the number of solution columns, one per target bit of an
// Equation.
const MaxRank = 64

// ApproximateRank returns the number of solution columns an approximate block
// with subset members out of a universe of size universe needs. The false
// positive rate of the block is then about 2^-rank.
func ApproximateRank(subset, universe int) int {
	if subset <= 0 || 2*subset >= universe {
		return 0
	}
	return min(MaxRank, int(math.Floor(math.Log2(float64(universe-subset)/float64(subset)))))
}

// targetMask keeps the target bits of the first rank columns.
func targetMask(rank int) uint64 {
	if rank >= MaxRank {
		return ^uint64(0)
	}
	return 1<<uint(rank) - 1
}

// Ribbon holds the row table of one block while equations are inserted.
//
// A Ribbon is created by a Builder, mutated by Insert, and consumed once by
// NewPartitionedFilter. It is not safe for concurrent use.
type Ribbon[T Filterable] struct {
	id         []byte
	kind       Kind
	m          int
	rank       int
	rows       []Equation
	exceptions []T
	inverted   bool
}

func newRibbon[T Filterable](id []byte, kind Kind, size, rank int, inverted bool) *Ribbon[T] {
	m := TableSize(size)
	return &Ribbon[T]{
		id:       slices.Clone(id),
		kind:     kind,
		m:        m,
		rank:     rank,
		rows:     make([]Equation, m),
		inverted: inverted,
	}
}

// ID returns the block identifier.
func (r *Ribbon[T]) ID() []byte { return r.id }

// Kind returns whether the ribbon is exact or approximate.
func (r *Ribbon[T]) Kind() Kind { return r.kind }

// M returns the nominal row-table size items are hashed into.
func (r *Ribbon[T]) M() int { return r.m }

// Rank returns the number of solution columns the block needs.
func (r *Ribbon[T]) Rank() int { return r.rank }

// Len returns the current number of rows. It is at least M and grows when a
// pivot is pushed past the end of the table.
func (r *Ribbon[T]) Len() int { return len(r.rows) }

// Inverted reports whether the block's answers are complemented.
func (r *Ribbon[T]) Inverted() bool { return r.inverted }

// Exceptions returns the items whose equations contradicted the table. In an
// exact ribbon they are non-members, in an approximate ribbon members.
func (r *Ribbon[T]) Exceptions() []T { return r.exceptions }

// Insert adds the equation of item to the row table.
//
// In an exact ribbon members are encoded with B = 0 and non-members with
// B = 1. In an approximate ribbon every inserted item is encoded as a member
// and keeps the fingerprint bits of its query as targets, one per column.
// Insert returns false if the equation contradicts the rows already present,
// in which case the item is recorded as an exception.
func (r *Ribbon[T]) Insert(item T) bool {
	if r.m == 0 {
		panic(fmt.Sprintf("ribbon: insert into empty %s block %x", r.kind, r.id))
	}

	q := item.AsQuery(r.m)
	eq := Equation{S: q.S, A: slices.Clone(q.A)}
	switch {
	case r.kind == Approximate:
		eq.B = q.B & targetMask(r.rank)
	case !item.Included():
		eq.B = 1
	}
	eq.normalize()

	for !eq.IsZero() {
		if eq.S >= len(r.rows) {
			r.rows = append(r.rows, make([]Equation, eq.S-len(r.rows)+1)...)
		}
		row := r.rows[eq.S]
		if row.IsZero() {
			r.rows[eq.S] = eq
			return true
		}
		eq.add(row)
	}

	if eq.B == 0 {
		return true
	}
	r.exceptions = append(r.exceptions, item)
	return false
}

// Solve back-substitutes the row table for solution column c and returns a
// bit vector z with row.Eval(z) == row.Target(c) for every stored row.
//
// z holds Words(Len()) + len(tail) words; tail is placed starting at bit
// Len() so that bands running past the end of this block read the bits
// already decided for the blocks stored after it. Rows without a pivot are
// free variables and receive a uniformly random bit from rng.
func (r *Ribbon[T]) Solve(c int, tail []uint64, rng RandSource) []uint64 {
	n := len(r.rows)
	z := make([]uint64, bitset.Words(n)+len(tail))
	bitset.OrShifted(z, tail, n)

	var pool uint64
	avail := 0
	for i := n - 1; i >= 0; i-- {
		row := r.rows[i]

		var bit uint8
		if row.IsZero() {
			if avail == 0 {
				pool = rng.Uint64()
				avail = 64
			}
			bit = uint8(pool & 1)
			pool >>= 1
			avail--
		} else {
			bit = row.Eval(z) ^ row.Target(c)
		}

		if bit == 1 {
			bitset.Set(z, i)
		}
	}
	return z
}
