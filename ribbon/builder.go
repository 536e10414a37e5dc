package ribbon

import (
	"fmt"
	"slices"
)

// Builder collects the items of one block before they are converted into a
// Ribbon with Approximate or Exact.
//
// A builder created with a pruning filter only keeps the items that filter
// reports as contained, so an exact ribbon only has to resolve the items the
// approximate filter could not already reject.
type Builder[T Filterable] struct {
	id           []byte
	items        []T
	filter       *PartitionedFilter
	universeSize int
	universeSet  bool
	inverted     bool
}

// NewBuilder returns a builder for block id. filter may be nil.
func NewBuilder[T Filterable](id []byte, filter *PartitionedFilter) *Builder[T] {
	return &Builder[T]{
		id:     slices.Clone(id),
		filter: filter,
	}
}

// ID returns the block identifier.
func (b *Builder[T]) ID() []byte { return b.id }

// Len returns the number of buffered items.
func (b *Builder[T]) Len() int { return len(b.items) }

// Insert buffers item unless the pruning filter rejects it.
func (b *Builder[T]) Insert(item T) {
	if b.filter != nil && !b.filter.Contains(item) {
		return
	}
	b.items = append(b.items, item)
}

// SetUniverseSize records the number of items in the block's universe.
// It must be called before Approximate.
func (b *Builder[T]) SetUniverseSize(n int) {
	b.universeSize = n
	b.universeSet = true
}

// Approximate converts the builder into an approximate ribbon encoding the
// buffered members. A block whose members make up its whole universe is
// stored inverted as the empty set.
func (b *Builder[T]) Approximate() (*Ribbon[T], error) {
	if !b.universeSet {
		return nil, fmt.Errorf("%w: block %x", ErrUniverseSizeUnset, b.id)
	}

	members := make([]T, 0, len(b.items))
	for _, item := range b.items {
		if item.Included() {
			members = append(members, item)
		}
	}
	subset := len(members)
	if subset > b.universeSize {
		return nil, fmt.Errorf("%w: block %x has %d members, universe %d",
			ErrSubsetTooLarge, b.id, subset, b.universeSize)
	}

	if subset > 0 && subset == b.universeSize {
		b.inverted = true
		return newRibbon[T](b.id, Approximate, 0, 0, true), nil
	}

	rank := ApproximateRank(subset, b.universeSize)
	r := newRibbon[T](b.id, Approximate, subset, rank, false)
	if rank == 0 {
		return r, nil
	}
	for _, item := range members {
		r.Insert(item)
	}
	return r, nil
}

// Exact converts the builder into an exact ribbon.
//
// When the pruning filter's block is empty its answer is already final, and
// an empty ribbon carrying the filter's inverted flag is returned. Otherwise
// members are inserted before non-members so that exceptions only ever land
// on non-members.
func (b *Builder[T]) Exact() *Ribbon[T] {
	if b.filter != nil && b.filter.BlockIsEmpty(b.id) {
		b.inverted = b.filter.BlockIsInverted(b.id)
		return newRibbon[T](b.id, Exact, 0, 1, b.inverted)
	}

	r := newRibbon[T](b.id, Exact, len(b.items), 1, b.inverted)
	if r.m == 0 {
		return r
	}
	for _, item := range b.items {
		if item.Included() {
			r.Insert(item)
		}
	}
	for _, item := range b.items {
		if !item.Included() {
			r.Insert(item)
		}
	}
	return r
}
