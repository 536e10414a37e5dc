package clubcard

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hupe1980/clubcard/keyset"
	"github.com/hupe1980/clubcard/ribbon"
	"github.com/hupe1980/clubcard/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testCard = Clubcard[*keyset.Universe, keyset.Partition]

func mixedSet() *keyset.Set {
	rng := testutil.NewRNG(4711)
	return testutil.MustSet(rng.Records(
		testutil.BlockSpec{ID: "empty", Items: 300, Members: 0},
		testutil.BlockSpec{ID: "sparse", Items: 2000, Members: 20},
		testutil.BlockSpec{ID: "medium", Items: 1000, Members: 200},
		testutil.BlockSpec{ID: "half", Items: 400, Members: 200},
		testutil.BlockSpec{ID: "dense", Items: 500, Members: 450},
		testutil.BlockSpec{ID: "full", Items: 100, Members: 100},
	))
}

func buildSet(t *testing.T, set *keyset.Set, opts ...Option) *testCard {
	t.Helper()
	card, err := BuildFromItems(context.Background(), set.Items, set.Universe, set.Partition, opts...)
	require.NoError(t, err)
	return card
}

func TestBuildFromItemsAnswersEveryItem(t *testing.T) {
	set := mixedSet()
	card := buildSet(t, set, WithSeed(1))

	for _, item := range set.Items {
		require.Equal(t, item.Included(), card.Contains(item), "key %s", item.Key())
		want := Nonmember
		if item.Included() {
			want = Member
		}
		require.Equal(t, want, card.Lookup(item))
	}
	require.NoError(t, Verify(context.Background(), card, set.Items))
}

func TestBlockShapes(t *testing.T) {
	card := buildSet(t, mixedSet(), WithSeed(2))

	assert.Equal(t, []string{"dense", "empty", "full", "half", "medium", "sparse"}, card.Blocks())

	t.Run("Empty", func(t *testing.T) {
		e, ok := card.Entry([]byte("empty"))
		require.True(t, ok)
		assert.Zero(t, e.ApproxM)
		assert.Zero(t, e.ExactM)
		assert.False(t, e.Inverted)
	})

	t.Run("Full", func(t *testing.T) {
		e, ok := card.Entry([]byte("full"))
		require.True(t, ok)
		assert.Zero(t, e.ApproxM)
		assert.Zero(t, e.ApproxRank)
		assert.Zero(t, e.ExactM)
		assert.True(t, e.Inverted)
	})

	t.Run("Half", func(t *testing.T) {
		e, ok := card.Entry([]byte("half"))
		require.True(t, ok)
		assert.Zero(t, e.ApproxRank)
		assert.Equal(t, ribbon.TableSize(200), e.ApproxM)
		assert.Equal(t, ribbon.TableSize(400), e.ExactM)
	})

	t.Run("Sparse", func(t *testing.T) {
		e, ok := card.Entry([]byte("sparse"))
		require.True(t, ok)
		assert.Equal(t, ribbon.ApproximateRank(20, 2000), e.ApproxRank)
		assert.Equal(t, ribbon.TableSize(20), e.ApproxM)
		// Only members and approximate false positives reach the exact stage.
		assert.Less(t, e.ExactM, ribbon.TableSize(2000)/4)
	})

	assert.Len(t, card.ApproxFilter(), ribbon.ApproximateRank(20, 2000))
	assert.NotEmpty(t, card.ExactFilter())
}

func TestLookupNoData(t *testing.T) {
	set := mixedSet()
	card := buildSet(t, set)

	h, err := keyset.NewHasher(testutil.TestSeed, 0)
	require.NoError(t, err)

	item := h.NewItem([]byte("unknown"), []byte("key"), true)
	assert.Equal(t, NoData, card.Lookup(item))
	assert.False(t, card.Contains(item))
	assert.Equal(t, "no data", NoData.String())
	assert.Equal(t, "member", Member.String())
	assert.Equal(t, "nonmember", Nonmember.String())
}

func TestMetadataIsKept(t *testing.T) {
	set := mixedSet()
	card := buildSet(t, set)

	assert.Same(t, set.Universe, card.Universe())
	assert.Equal(t, set.Partition, card.Partition())
}

func TestStats(t *testing.T) {
	card := buildSet(t, mixedSet(), WithSeed(3))

	s := card.Stats()
	assert.Equal(t, 6, s.Blocks)
	assert.Equal(t, 1, s.Inverted)
	assert.Equal(t, len(card.ApproxFilter()), s.ApproxCols)
	assert.Equal(t, 64*len(card.ExactFilter()), s.ExactBits)
	assert.Equal(t, s.ApproxBits+s.ExactBits, s.TotalBits())
}

func TestSeededBuildsAreReproducible(t *testing.T) {
	set := mixedSet()

	a := buildSet(t, set, WithSeed(42))
	b := buildSet(t, set, WithSeed(42))

	assert.Equal(t, a.ApproxFilter(), b.ApproxFilter())
	assert.Equal(t, a.ExactFilter(), b.ExactFilter())
}

func TestWithRand(t *testing.T) {
	set := mixedSet()
	card := buildSet(t, set, WithRand(testutil.NewRNG(9)))
	require.NoError(t, Verify(context.Background(), card, set.Items))
}

func TestBuildFromItemsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set := mixedSet()
	_, err := BuildFromItems(ctx, set.Items, set.Universe, set.Partition)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetricsCollector(t *testing.T) {
	set := mixedSet()
	mc := &BasicMetricsCollector{}
	card := buildSet(t, set, WithMetricsCollector(mc), WithSeed(5))

	members := 0
	for _, item := range set.Items {
		card.Lookup(item)
		if item.Included() {
			members++
		}
	}

	s := mc.GetStats()
	assert.Equal(t, int64(1), s.BuildCount)
	assert.Zero(t, s.BuildErrors)
	assert.Equal(t, int64(1), mc.ApproxStages.Load())
	assert.Equal(t, int64(1), mc.ExactStages.Load())
	assert.Positive(t, s.ExactBits)
	assert.Equal(t, int64(members), s.QueryMembers)
	assert.Equal(t, int64(len(set.Items)-members), s.QueryNonmembers)
	assert.Zero(t, s.QueryNoData)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	buildSet(t, mixedSet(), WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, `"msg":"ribbon built"`)
	assert.Contains(t, out, `"stage":"approximate"`)
	assert.Contains(t, out, `"stage":"exact"`)
	assert.Contains(t, out, `"msg":"clubcard built"`)
	assert.Contains(t, out, `"blocks":6`)
}

func TestApproximateFalsePositiveRate(t *testing.T) {
	specs := []testutil.BlockSpec{
		{ID: "rank-6", Items: 20000, Members: 200},
		{ID: "rank-4", Items: 6000, Members: 300},
		{ID: "rank-2", Items: 3000, Members: 600},
		{ID: "rank-1", Items: 4000, Members: 1000},
	}
	records := testutil.NewRNG(99).Records(specs...)

	for _, width := range []int{1, keyset.DefaultWidth, 4} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			h, err := keyset.NewHasher([]byte("fp-rate"), width)
			require.NoError(t, err)
			set, err := h.NewSet(records)
			require.NoError(t, err)
			card := buildSet(t, set, WithSeed(uint64(width)))

			passed := map[string]int{}
			nonMembers := map[string]int{}
			for _, item := range set.Items {
				e, ok := card.Entry(item.Block())
				require.True(t, ok)
				approx := ribbon.Contains(e.approx(), card.ApproxFilter(), item)
				if item.Included() {
					require.True(t, approx, "member %s", item.Key())
					continue
				}
				nonMembers[string(item.Block())]++
				if approx {
					passed[string(item.Block())]++
				}
			}

			for _, spec := range specs {
				e, _ := card.Entry([]byte(spec.ID))
				require.Equal(t, ribbon.ApproximateRank(spec.Members, spec.Items), e.ApproxRank)

				expected := float64(nonMembers[spec.ID]) / float64(uint(1)<<e.ApproxRank)
				fp := float64(passed[spec.ID])
				assert.Less(t, fp, 2*expected, "block %s", spec.ID)
				assert.Greater(t, fp, expected/2, "block %s", spec.ID)
			}
		})
	}
}
