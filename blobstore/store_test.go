package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clubcard/internal/fs"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "cards/2024/a.club", []byte("a")))
	require.NoError(t, store.Put(ctx, "cards/2024/b.club", []byte("b")))
	require.NoError(t, store.Put(ctx, "other", []byte("o")))

	data, err := store.Get(ctx, "cards/2024/a.club")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	require.NoError(t, store.Put(ctx, "cards/2024/a.club", []byte("a2")))
	data, err = store.Get(ctx, "cards/2024/a.club")
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), data)

	names, err := store.List(ctx, "cards/")
	require.NoError(t, err)
	assert.Equal(t, []string{"cards/2024/a.club", "cards/2024/b.club"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.Delete(ctx, "cards/2024/a.club"))
	require.NoError(t, store.Delete(ctx, "cards/2024/a.club"))
	_, err = store.Get(ctx, "cards/2024/a.club")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FailedWriteKeepsOldBlob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, NewLocalStore(dir).Put(ctx, "card.club", []byte("v1")))

	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"Write", fs.Fault{FailAfterBytes: 0}},
		{"Sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"Rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ffs := fs.NewFaultyFS(nil)
			ffs.AddRule(".tmp", tt.fault)
			store := NewLocalStore(dir, WithFileSystem(ffs))

			err := store.Put(ctx, "card.club", []byte("v2"))
			require.ErrorIs(t, err, fs.ErrInjected)

			data, err := store.Get(ctx, "card.club")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), data)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestLocalStore_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewLocalStore(t.TempDir())
	require.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
	_, err := store.Get(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBlobPointer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewBlobPointer(store, "")

	_, err := p.Current(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Advance(ctx, "cards/v1.club"))
	require.NoError(t, p.Advance(ctx, "cards/v2.club"))

	current, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cards/v2.club", current)

	raw, err := store.Get(ctx, CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "cards/v2.club\n", string(raw))
}
