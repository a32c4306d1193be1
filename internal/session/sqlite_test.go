package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	sess := New(99)
	sess.Tier = TierPro
	sess.State = StateAwaitEditPrompt
	sess.SetPendingPhoto([]byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, TierPro, got.Tier)
	assert.Equal(t, StateAwaitEditPrompt, got.State)
	assert.Equal(t, []byte{0xFF, 0xD8}, got.PendingPhoto)
	assert.Equal(t, "image/jpeg", got.PendingMIME)
}

func TestSQLiteStore_PutOverwrites(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	sess := New(99)
	require.NoError(t, store.Put(ctx, sess))

	sess.State = StateAwaitGenPrompt
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitGenPrompt, got.State)
}

func TestSQLiteStore_DeleteAndAbsent(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, New(1)))
	require.NoError(t, store.Delete(ctx, 1))

	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
