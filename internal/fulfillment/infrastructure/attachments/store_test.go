package attachments

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("put and get round trip", func(t *testing.T) {
		store := NewInMemoryStore()
		attID := uuid.New()

		ref, err := store.Put(ctx, orderID, attID, []byte("jpeg bytes"))
		require.NoError(t, err)
		assert.Equal(t, BlobRef(orderID, attID), ref)

		data, err := store.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), data)
	})

	t.Run("rejects oversized blobs", func(t *testing.T) {
		store := NewInMemoryStore()

		_, err := store.Put(ctx, orderID, uuid.New(), bytes.Repeat([]byte("x"), MaxBlobSize+1))
		assert.ErrorIs(t, err, ErrBlobTooLarge)
	})

	t.Run("get of unknown ref fails", func(t *testing.T) {
		store := NewInMemoryStore()

		_, err := store.Get(ctx, BlobRef(orderID, uuid.New()))
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("delete removes the blob", func(t *testing.T) {
		store := NewInMemoryStore()
		attID := uuid.New()

		ref, err := store.Put(ctx, orderID, attID, []byte("jpeg bytes"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, ref))
		_, err = store.Get(ctx, ref)
		assert.ErrorIs(t, err, ErrBlobNotFound)

		assert.ErrorIs(t, store.Delete(ctx, ref), ErrBlobNotFound)
	})

	t.Run("delete order removes only that order's blobs", func(t *testing.T) {
		store := NewInMemoryStore()
		otherOrder := uuid.New()

		kept, err := store.Put(ctx, otherOrder, uuid.New(), []byte("keep"))
		require.NoError(t, err)
		dropped, err := store.Put(ctx, orderID, uuid.New(), []byte("drop"))
		require.NoError(t, err)

		require.NoError(t, store.DeleteOrder(ctx, orderID))

		_, err = store.Get(ctx, dropped)
		assert.ErrorIs(t, err, ErrBlobNotFound)
		_, err = store.Get(ctx, kept)
		assert.NoError(t, err)
	})
}
