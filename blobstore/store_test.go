package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return map[string]Store{
		"Memory": NewMemoryStore(),
		"Local":  local,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "results/pca.bin", []byte("hello")))

			data, err := s.Get(ctx, "results/pca.bin")
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), data)

			// Overwrite is atomic and total.
			require.NoError(t, s.Put(ctx, "results/pca.bin", []byte("v2")))
			data, err = s.Get(ctx, "results/pca.bin")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), data)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing blob is not an error.
			assert.NoError(t, s.Delete(ctx, "missing"))
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "a", []byte("x")))
			require.NoError(t, s.Delete(ctx, "a"))

			_, err := s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "runs/1.bin", nil))
			require.NoError(t, s.Put(ctx, "runs/2.bin", nil))
			require.NoError(t, s.Put(ctx, "other.bin", nil))

			names, err := s.List(ctx, "runs/")
			require.NoError(t, err)
			assert.Equal(t, []string{"runs/1.bin", "runs/2.bin"}, names)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	payload := []byte{1, 2, 3}
	require.NoError(t, s.Put(ctx, "a", payload))
	payload[0] = 9 // caller mutation must not leak in

	data, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	data[1] = 9 // reader mutation must not leak back
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}
