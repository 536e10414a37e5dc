package clubcard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clubcard/keyset"
	"github.com/hupe1980/clubcard/ribbon"
	"github.com/hupe1980/clubcard/testutil"
)

func blockItems(block string, items, members int) []keyset.Item {
	rng := testutil.NewRNG(11)
	return testutil.MustSet(rng.Records(testutil.BlockSpec{ID: block, Items: items, Members: members})).Items
}

func approxRibbon(t *testing.T, b *Builder[keyset.Item], items []keyset.Item) *ribbon.Ribbon[keyset.Item] {
	t.Helper()
	ab := b.NewApproxBuilder(items[0].Block())
	for _, item := range items {
		ab.Insert(item)
	}
	ab.SetUniverseSize(len(items))
	r, err := ab.Approximate()
	require.NoError(t, err)
	return r
}

func exactRibbon(t *testing.T, b *Builder[keyset.Item], items []keyset.Item) *ribbon.Ribbon[keyset.Item] {
	t.Helper()
	eb, err := b.NewExactBuilder(items[0].Block())
	require.NoError(t, err)
	for _, item := range items {
		eb.Insert(item)
	}
	return eb.Exact()
}

func TestStagedBuild(t *testing.T) {
	ctx := context.Background()
	a := blockItems("a", 500, 10)
	c := blockItems("c", 200, 150)

	b := NewBuilder[keyset.Item](WithSeed(1))
	require.NoError(t, b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{
		approxRibbon(t, b, a),
		approxRibbon(t, b, c),
	}))
	require.NotNil(t, b.ApproxFilter())
	assert.Equal(t, ribbon.Approximate, b.ApproxFilter().Kind())

	require.NoError(t, b.CollectExactRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{
		exactRibbon(t, b, a),
		exactRibbon(t, b, c),
	}))
	require.NotNil(t, b.ExactFilter())
	assert.Equal(t, 1, b.ExactFilter().Rank())

	card, err := Build(ctx, b, "universe", []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, "universe", card.Universe())
	assert.Equal(t, []string{"a", "c"}, card.Partition())

	for _, item := range append(a, c...) {
		require.Equal(t, item.Included(), card.Contains(item))
	}
}

func TestBuildOrderErrors(t *testing.T) {
	ctx := context.Background()
	a := blockItems("a", 100, 10)

	b := NewBuilder[keyset.Item]()

	_, err := b.NewExactBuilder([]byte("a"))
	require.ErrorIs(t, err, ErrApproxFilterMissing)

	err = b.CollectExactRibbons(ctx, nil)
	require.ErrorIs(t, err, ErrApproxFilterMissing)

	_, err = Build(ctx, b, 0, 0)
	require.ErrorIs(t, err, ErrApproxFilterMissing)

	require.NoError(t, b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{approxRibbon(t, b, a)}))

	_, err = Build(ctx, b, 0, 0)
	require.ErrorIs(t, err, ErrExactFilterMissing)
}

func TestCollectErrors(t *testing.T) {
	ctx := context.Background()
	a := blockItems("a", 100, 10)

	t.Run("StageKind", func(t *testing.T) {
		b := NewBuilder[keyset.Item]()
		exact := ribbon.NewBuilder[keyset.Item]([]byte("a"), nil)
		for _, item := range a {
			exact.Insert(item)
		}

		err := b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{exact.Exact()})
		require.ErrorIs(t, err, ErrStageKind)

		var berr *BuildError
		require.True(t, errors.As(err, &berr))
		assert.Equal(t, []byte("a"), berr.Block)
		assert.Equal(t, ribbon.Approximate, berr.Stage)
	})

	t.Run("ExactRank", func(t *testing.T) {
		b := NewBuilder[keyset.Item]()
		r := approxRibbon(t, b, a)
		require.NotEqual(t, 1, r.Rank())
		require.NoError(t, b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{r}))

		err := b.CollectExactRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{r})
		require.ErrorIs(t, err, ErrExactRank)
	})

	t.Run("DuplicateBlock", func(t *testing.T) {
		b := NewBuilder[keyset.Item]()
		err := b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{
			approxRibbon(t, b, a),
			approxRibbon(t, b, a),
		})
		require.ErrorIs(t, err, ribbon.ErrDuplicateBlock)
	})
}

func TestBuildConsistencyErrors(t *testing.T) {
	ctx := context.Background()
	a := blockItems("a", 100, 10)
	full := blockItems("full", 50, 50)

	t.Run("MissingExactBlock", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		b := NewBuilder[keyset.Item](WithMetricsCollector(mc))
		require.NoError(t, b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{
			approxRibbon(t, b, a),
			approxRibbon(t, b, full),
		}))
		require.NoError(t, b.CollectExactRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{exactRibbon(t, b, a)}))

		_, err := Build(ctx, b, 0, 0)
		require.ErrorIs(t, err, ErrMissingExactBlock)

		var berr *BuildError
		require.True(t, errors.As(err, &berr))
		assert.Equal(t, []byte("full"), berr.Block)
		assert.Equal(t, int64(1), mc.GetStats().BuildErrors)
	})

	t.Run("InvertedMismatch", func(t *testing.T) {
		b := NewBuilder[keyset.Item]()
		require.NoError(t, b.CollectApproxRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{approxRibbon(t, b, full)}))
		require.True(t, b.ApproxFilter().BlockIsInverted([]byte("full")))

		// An unpruned exact builder does not inherit the inversion.
		eb := ribbon.NewBuilder[keyset.Item]([]byte("full"), nil)
		for _, item := range full {
			eb.Insert(item)
		}
		require.NoError(t, b.CollectExactRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{eb.Exact()}))

		_, err := Build(ctx, b, 0, 0)
		require.ErrorIs(t, err, ErrInvertedMismatch)
	})
}

func TestBuildErrorMessage(t *testing.T) {
	err := &BuildError{Stage: ribbon.Exact, Block: []byte("b1"), Err: ErrExactRank}
	assert.Equal(t, `exact stage, block "b1": clubcard: exact filter rank must be 1`, err.Error())
	assert.ErrorIs(t, err, ErrExactRank)
}
