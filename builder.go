package clubcard

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/clubcard/ribbon"
)

// Builder drives the two filter stages that make up a clubcard.
//
// The approximate stage encodes every block's members in rank columns sized
// for a false positive rate of about 2^-rank. The exact stage then resolves
// every item that survives the approximate filter. Typical use:
//
//	b := clubcard.NewBuilder[keyset.Item]()
//	for each block: ab := b.NewApproxBuilder(block); ab.Insert(...); ab.SetUniverseSize(n)
//	b.CollectApproxRibbons(ctx, approxRibbons)
//	for each block: eb, _ := b.NewExactBuilder(block); eb.Insert(...)
//	b.CollectExactRibbons(ctx, exactRibbons)
//	card, err := clubcard.Build(ctx, b, universe, partition)
//
// A Builder is not safe for concurrent use.
type Builder[T ribbon.Filterable] struct {
	opts   options
	approx *ribbon.PartitionedFilter
	exact  *ribbon.PartitionedFilter
}

// NewBuilder returns a Builder with both stages pending.
func NewBuilder[T ribbon.Filterable](opts ...Option) *Builder[T] {
	return &Builder[T]{opts: applyOptions(opts)}
}

// NewApproxBuilder returns an approximate-stage builder for block.
func (b *Builder[T]) NewApproxBuilder(block []byte) *ribbon.Builder[T] {
	return ribbon.NewBuilder[T](block, nil)
}

// CollectApproxRibbons solves the approximate ribbons into the approximate filter.
func (b *Builder[T]) CollectApproxRibbons(ctx context.Context, ribbons []*ribbon.Ribbon[T]) error {
	f, err := b.collect(ctx, ribbon.Approximate, ribbons)
	if err != nil {
		return err
	}
	b.approx = f
	return nil
}

// ApproxFilter returns the collected approximate filter, or nil.
func (b *Builder[T]) ApproxFilter() *ribbon.PartitionedFilter { return b.approx }

// NewExactBuilder returns an exact-stage builder for block that keeps only
// the items the approximate filter does not reject.
func (b *Builder[T]) NewExactBuilder(block []byte) (*ribbon.Builder[T], error) {
	if b.approx == nil {
		return nil, ErrApproxFilterMissing
	}
	return ribbon.NewBuilder[T](block, b.approx), nil
}

// CollectExactRibbons solves the exact ribbons into the exact filter. Every
// exact ribbon must have rank 1.
func (b *Builder[T]) CollectExactRibbons(ctx context.Context, ribbons []*ribbon.Ribbon[T]) error {
	if b.approx == nil {
		return ErrApproxFilterMissing
	}
	for _, r := range ribbons {
		if r.Rank() != 1 {
			return &BuildError{Stage: ribbon.Exact, Block: r.ID(), Err: ErrExactRank}
		}
	}
	f, err := b.collect(ctx, ribbon.Exact, ribbons)
	if err != nil {
		return err
	}
	b.exact = f
	return nil
}

// ExactFilter returns the collected exact filter, or nil.
func (b *Builder[T]) ExactFilter() *ribbon.PartitionedFilter { return b.exact }

func (b *Builder[T]) collect(ctx context.Context, kind ribbon.Kind, ribbons []*ribbon.Ribbon[T]) (*ribbon.PartitionedFilter, error) {
	for _, r := range ribbons {
		if r.Kind() != kind {
			return nil, &BuildError{Stage: kind, Block: r.ID(), Err: ErrStageKind}
		}
		b.opts.logger.LogRibbon(ctx, kind, r.ID(), r.Len(), r.M(), r.Rank(), len(r.Exceptions()))
	}

	start := time.Now()
	f, err := ribbon.NewPartitionedFilter(ribbons, b.opts.ribbonOptions(kind)...)
	if err != nil {
		return nil, fmt.Errorf("collect %s ribbons: %w", kind, err)
	}
	elapsed := time.Since(start)

	stats := f.Stats()
	b.opts.logger.LogStage(ctx, kind, stats, elapsed)
	b.opts.metricsCollector.RecordStage(kind, stats, elapsed)
	return f, nil
}

// Build merges both collected stages into a Clubcard carrying universe and
// partition as opaque metadata.
func Build[T ribbon.Filterable, U, P any](ctx context.Context, b *Builder[T], universe U, partition P) (card *Clubcard[U, P], err error) {
	start := time.Now()
	defer func() {
		blocks := 0
		if card != nil {
			blocks = len(card.blocks)
		}
		b.opts.logger.LogBuild(ctx, blocks, err)
		b.opts.metricsCollector.RecordBuild(time.Since(start), err)
	}()

	if b.approx == nil {
		return nil, ErrApproxFilterMissing
	}
	if b.exact == nil {
		return nil, ErrExactFilterMissing
	}
	if b.exact.Rank() != 1 {
		return nil, fmt.Errorf("%w: exact filter has %d columns", ErrExactRank, b.exact.Rank())
	}

	index := make(map[string]Entry, len(b.approx.Blocks()))
	for _, block := range b.approx.Blocks() {
		ae, _ := b.approx.Entry([]byte(block))
		ee, ok := b.exact.Entry([]byte(block))
		if !ok {
			return nil, &BuildError{Stage: ribbon.Exact, Block: []byte(block), Err: ErrMissingExactBlock}
		}
		if ae.Inverted != ee.Inverted {
			return nil, &BuildError{Stage: ribbon.Exact, Block: []byte(block), Err: ErrInvertedMismatch}
		}
		index[block] = Entry{
			ApproxOffset:     ae.Offset,
			ApproxM:          ae.M,
			ApproxRank:       ae.Rank,
			ExactOffset:      ee.Offset,
			ExactM:           ee.M,
			Inverted:         ae.Inverted,
			Exceptions:       ee.Exceptions,
			ApproxExceptions: ae.Exceptions,
		}
	}

	return New(universe, partition, index, b.approx.Solution(), b.exact.Solution()[0],
		WithQueryMetrics(b.opts.metricsCollector)), nil
}

// BuildFromItems runs both stages over a flat item list.
//
// Each block's universe is the set of its items, and its members are the
// items reporting Included.
func BuildFromItems[T ribbon.Filterable, U, P any](ctx context.Context, items []T, universe U, partition P, opts ...Option) (*Clubcard[U, P], error) {
	b := NewBuilder[T](opts...)

	var order []string
	groups := make(map[string][]T)
	for _, item := range items {
		key := string(item.Block())
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	approx := make([]*ribbon.Ribbon[T], 0, len(order))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ab := b.NewApproxBuilder([]byte(key))
		for _, item := range groups[key] {
			ab.Insert(item)
		}
		ab.SetUniverseSize(len(groups[key]))
		r, err := ab.Approximate()
		if err != nil {
			return nil, &BuildError{Stage: ribbon.Approximate, Block: []byte(key), Err: err}
		}
		approx = append(approx, r)
	}
	if err := b.CollectApproxRibbons(ctx, approx); err != nil {
		return nil, err
	}

	exact := make([]*ribbon.Ribbon[T], 0, len(order))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		eb, err := b.NewExactBuilder([]byte(key))
		if err != nil {
			return nil, err
		}
		for _, item := range groups[key] {
			eb.Insert(item)
		}
		exact = append(exact, eb.Exact())
	}
	if err := b.CollectExactRibbons(ctx, exact); err != nil {
		return nil, err
	}

	return Build(ctx, b, universe, partition)
}
