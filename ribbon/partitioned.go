package ribbon

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/hupe1980/clubcard/internal/bitset"
)

// IndexEntry locates one block inside a PartitionedFilter's solution columns.
type IndexEntry struct {
	// Offset is the block's first bit in every column it participates in.
	Offset int
	// M is the row-table size the block's equations are derived for.
	// Zero means the block stores no rows and its bare answer is false.
	M int
	// Rank is the number of leading columns the block participates in.
	Rank int
	// Exceptions holds the discriminants of items whose answer is decided by
	// direct comparison: never contained for exact blocks, always contained
	// for approximate ones.
	Exceptions [][]byte
	// Inverted complements the block's answers.
	Inverted bool
	// Kind selects the target bits a query is compared against.
	Kind Kind
}

// IsException reports whether discriminant matches one of the block's exceptions.
func (e IndexEntry) IsException(discriminant []byte) bool {
	for _, x := range e.Exceptions {
		if bytes.Equal(x, discriminant) {
			return true
		}
	}
	return false
}

// PartitionedFilter merges solved ribbons of one kind into shared solution
// columns. It is immutable and safe for concurrent use.
type PartitionedFilter struct {
	kind     Kind
	blocks   []string
	index    map[string]IndexEntry
	solution [][]uint64
}

// NewPartitionedFilter solves ribbons and lays them out in shared columns.
//
// Blocks are ordered by descending rank, so column i is a prefix of the
// layout made of the blocks with rank > i. Each column is solved from its
// last block to its first, handing every block the bits already decided for
// the blocks after it, because a band may extend past its own block.
func NewPartitionedFilter[T Filterable](ribbons []*Ribbon[T], opts ...Option) (*PartitionedFilter, error) {
	o := applyOptions(opts)

	f := &PartitionedFilter{
		kind:  Exact,
		index: make(map[string]IndexEntry, len(ribbons)),
	}

	seen := make(map[string]struct{}, len(ribbons))
	for i, r := range ribbons {
		if i == 0 {
			f.kind = r.kind
		} else if r.kind != f.kind {
			return nil, fmt.Errorf("%w: block %x is %s, expected %s", ErrKindMismatch, r.id, r.kind, f.kind)
		}
		if _, ok := seen[string(r.id)]; ok {
			return nil, fmt.Errorf("%w: %x", ErrDuplicateBlock, r.id)
		}
		seen[string(r.id)] = struct{}{}
	}

	layout := slices.Clone(ribbons)
	slices.SortStableFunc(layout, func(a, b *Ribbon[T]) int {
		if c := cmp.Compare(b.rank, a.rank); c != 0 {
			return c
		}
		return bytes.Compare(a.id, b.id)
	})

	maxRank := 0
	if len(layout) > 0 {
		maxRank = layout[0].rank
	}
	f.solution = make([][]uint64, maxRank)
	for i := 0; i < maxRank; i++ {
		n := 0
		for n < len(layout) && layout[n].rank > i {
			n++
		}
		var tail []uint64
		for j := n - 1; j >= 0; j-- {
			tail = layout[j].Solve(i, tail, o.rng)
		}
		f.solution[i] = tail
	}

	offset := 0
	for _, r := range layout {
		key := string(r.id)
		entry := IndexEntry{
			Offset:   offset,
			M:        r.m,
			Rank:     r.rank,
			Inverted: r.inverted,
			Kind:     r.kind,
		}
		for _, item := range r.exceptions {
			entry.Exceptions = append(entry.Exceptions, slices.Clone(item.Discriminant()))
		}
		f.index[key] = entry
		f.blocks = append(f.blocks, key)
		offset += len(r.rows)
	}
	sort.Strings(f.blocks)

	return f, nil
}

// Kind returns the kind of the merged ribbons.
func (f *PartitionedFilter) Kind() Kind { return f.kind }

// Rank returns the number of solution columns.
func (f *PartitionedFilter) Rank() int { return len(f.solution) }

// Solution returns the solution columns. The slices must not be modified.
func (f *PartitionedFilter) Solution() [][]uint64 { return f.solution }

// Blocks returns the block identifiers in ascending byte order.
func (f *PartitionedFilter) Blocks() []string { return slices.Clone(f.blocks) }

// Entry returns the index entry of block id.
func (f *PartitionedFilter) Entry(id []byte) (IndexEntry, bool) {
	e, ok := f.index[string(id)]
	return e, ok
}

// BlockIsEmpty reports whether block id stores no rows. Unknown blocks are empty.
func (f *PartitionedFilter) BlockIsEmpty(id []byte) bool {
	e, ok := f.index[string(id)]
	return !ok || e.M == 0
}

// BlockIsInverted reports whether block id has complemented answers.
func (f *PartitionedFilter) BlockIsInverted(id []byte) bool {
	e, ok := f.index[string(id)]
	return ok && e.Inverted
}

// Contains reports whether item is (possibly, for approximate filters) a
// member. Items of unknown blocks are not contained.
func (f *PartitionedFilter) Contains(item Queryable) bool {
	e, ok := f.index[string(item.Block())]
	if !ok {
		return false
	}
	return Contains(e, f.solution, item) != e.Inverted
}

// Contains evaluates item against the block described by e, reading the
// first e.Rank columns. Exact blocks expect every column to evaluate to 0,
// approximate blocks expect the item's fingerprint bits. It returns the
// answer before inversion.
func Contains(e IndexEntry, columns [][]uint64, item Queryable) bool {
	if e.M == 0 {
		return false
	}
	if len(e.Exceptions) > 0 && e.IsException(item.Discriminant()) {
		return e.Kind == Approximate
	}
	eq := item.AsQuery(e.M).Shift(e.Offset)
	for i := 0; i < e.Rank && i < len(columns); i++ {
		var want uint8
		if e.Kind == Approximate {
			want = eq.Target(i)
		}
		if eq.Eval(columns[i]) != want {
			return false
		}
	}
	return true
}

// Stats summarizes a filter's size.
type Stats struct {
	Blocks       int
	Columns      int
	SolutionBits int
	SetBits      int
	Exceptions   int
	Inverted     int
}

// Stats returns size statistics.
func (f *PartitionedFilter) Stats() Stats {
	s := Stats{
		Blocks:  len(f.blocks),
		Columns: len(f.solution),
	}
	for _, col := range f.solution {
		s.SolutionBits += 64 * len(col)
		s.SetBits += bitset.Count(col)
	}
	for _, e := range f.index {
		s.Exceptions += len(e.Exceptions)
		if e.Inverted {
			s.Inverted++
		}
	}
	return s
}
