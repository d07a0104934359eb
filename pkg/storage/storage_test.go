package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

func backends(t *testing.T) map[string]kv {
	t.Helper()
	mem, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	file, err := Open(filepath.Join(t.TempDir(), "nested", "raden.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return map[string]kv{
		"sqlite-memory": mem,
		"sqlite-file":   file,
		"map":           NewMemory(),
	}
}

func TestKV_SetGetDelete(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.Get(ctx, "pocket_advance_v1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "pocket_advance_v1", `{"detailName":"one"}`))
			require.NoError(t, store.Set(ctx, "pocket_advance_v1", `{"detailName":"two"}`))

			v, ok, err := store.Get(ctx, "pocket_advance_v1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"detailName":"two"}`, v)

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"pocket_advance_v1"}, keys)

			require.NoError(t, store.Delete(ctx, "pocket_advance_v1"))
			require.NoError(t, store.Delete(ctx, "pocket_advance_v1"))
			_, ok, err = store.Get(ctx, "pocket_advance_v1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_RejectsEmptyKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Set(context.Background(), " ", "x"), ErrEmptyKey)
		})
	}
}

func TestDB_ClosedHandle(t *testing.T) {
	var db *DB
	_, _, err := db.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, db.Set(context.Background(), "k", "v"), ErrClosed)
	assert.NoError(t, db.Close())
}

func TestDB_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raden.sqlite")
	ctx := context.Background()

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "k", "v"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
