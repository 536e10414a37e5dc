package clubcard

import (
	"maps"
	"slices"

	"github.com/hupe1980/clubcard/ribbon"
)

// Membership is the three-valued answer of Lookup.
type Membership uint8

const (
	// NoData means the item's block is not covered by the clubcard.
	NoData Membership = iota
	// Member means the item is in the encoded subset.
	Member
	// Nonmember means the item is not in the encoded subset.
	Nonmember
)

// String returns the lowercase name of the answer.
func (m Membership) String() string {
	switch m {
	case Member:
		return "member"
	case Nonmember:
		return "nonmember"
	default:
		return "no data"
	}
}

func membership(contained bool) Membership {
	if contained {
		return Member
	}
	return Nonmember
}

// Entry locates one block in both filter stages.
type Entry struct {
	ApproxOffset int
	ApproxM      int
	ApproxRank   int
	ExactOffset  int
	ExactM       int
	Inverted     bool
	// Exceptions holds discriminants the exact stage never contains.
	Exceptions [][]byte
	// ApproxExceptions holds members the approximate stage always passes.
	ApproxExceptions [][]byte
}

func (e Entry) approx() ribbon.IndexEntry {
	return ribbon.IndexEntry{
		Offset:     e.ApproxOffset,
		M:          e.ApproxM,
		Rank:       e.ApproxRank,
		Exceptions: e.ApproxExceptions,
		Kind:       ribbon.Approximate,
	}
}

func (e Entry) exact() ribbon.IndexEntry {
	return ribbon.IndexEntry{
		Offset:     e.ExactOffset,
		M:          e.ExactM,
		Rank:       1,
		Exceptions: e.Exceptions,
		Kind:       ribbon.Exact,
	}
}

// Clubcard answers exact membership queries for every item of its
// universe. U and P are caller metadata describing the universe and its
// partition into blocks; the clubcard stores them without interpreting them.
//
// A Clubcard is immutable and safe for concurrent use.
type Clubcard[U, P any] struct {
	universe  U
	partition P
	index     map[string]Entry
	blocks    []string
	approx    [][]uint64
	exact     []uint64
	metrics   MetricsCollector
}

// New assembles a Clubcard from its parts. It is used by decoders; builds
// go through Build.
func New[U, P any](universe U, partition P, index map[string]Entry, approx [][]uint64, exact []uint64, opts ...EncodingOption) *Clubcard[U, P] {
	o := applyEncodingOptions(opts)
	c := &Clubcard[U, P]{
		universe:  universe,
		partition: partition,
		index:     index,
		blocks:    slices.Sorted(maps.Keys(index)),
		approx:    approx,
		exact:     exact,
		metrics:   o.metrics,
	}
	if c.index == nil {
		c.index = map[string]Entry{}
	}
	return c
}

// Universe returns the universe metadata.
func (c *Clubcard[U, P]) Universe() U { return c.universe }

// Partition returns the partition metadata.
func (c *Clubcard[U, P]) Partition() P { return c.partition }

// Blocks returns the block identifiers in ascending byte order.
func (c *Clubcard[U, P]) Blocks() []string { return slices.Clone(c.blocks) }

// Entry returns the index entry of block.
func (c *Clubcard[U, P]) Entry(block []byte) (Entry, bool) {
	e, ok := c.index[string(block)]
	return e, ok
}

// ApproxFilter returns the approximate solution columns. They must not be modified.
func (c *Clubcard[U, P]) ApproxFilter() [][]uint64 { return c.approx }

// ExactFilter returns the exact solution vector. It must not be modified.
func (c *Clubcard[U, P]) ExactFilter() []uint64 { return c.exact }

// Contains reports whether item is a member. Items of blocks the clubcard
// does not cover are not contained.
func (c *Clubcard[U, P]) Contains(item ribbon.Queryable) bool {
	return c.Lookup(item) == Member
}

// Lookup answers whether item is a member, or NoData when its block is not
// covered.
func (c *Clubcard[U, P]) Lookup(item ribbon.Queryable) Membership {
	result := c.lookup(item)
	c.metrics.RecordQuery(result)
	return result
}

func (c *Clubcard[U, P]) lookup(item ribbon.Queryable) Membership {
	e, ok := c.index[string(item.Block())]
	if !ok {
		return NoData
	}
	if !ribbon.Contains(e.approx(), c.approx, item) {
		return membership(e.Inverted)
	}
	return membership(ribbon.Contains(e.exact(), [][]uint64{c.exact}, item) != e.Inverted)
}

// CardStats summarizes a clubcard's size.
type CardStats struct {
	Blocks     int
	Inverted   int
	Exceptions int
	ApproxCols int
	ApproxBits int
	ExactBits  int
}

// TotalBits returns the number of solution bits across both stages.
func (s CardStats) TotalBits() int { return s.ApproxBits + s.ExactBits }

// Stats returns size statistics.
func (c *Clubcard[U, P]) Stats() CardStats {
	s := CardStats{
		Blocks:     len(c.blocks),
		ApproxCols: len(c.approx),
		ExactBits:  64 * len(c.exact),
	}
	for _, col := range c.approx {
		s.ApproxBits += 64 * len(col)
	}
	for _, e := range c.index {
		s.Exceptions += len(e.Exceptions) + len(e.ApproxExceptions)
		if e.Inverted {
			s.Inverted++
		}
	}
	return s
}
