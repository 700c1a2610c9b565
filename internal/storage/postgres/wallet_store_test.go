package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

func testKeypair(i int) domain.Keypair {
	return domain.Keypair{
		Address: fmt.Sprintf("pgaddr%d", i),
		Secret:  []byte{byte(i), 10, 20, 30},
	}
}

func TestWalletStore_MainLifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	has, err := store.HasMain(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.LoadMain(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.CreateMain(ctx, testKeypair(100)))

	has, err = store.HasMain(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	main, err := store.LoadMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MainSlotIndex, main.Index)
	assert.Equal(t, "pgaddr100", main.Keypair.Address)
	assert.Equal(t, []byte{100, 10, 20, 30}, main.Keypair.Secret)
	assert.NotZero(t, main.CreatedAt)

	// Main slot is append-only.
	err = store.CreateMain(ctx, testKeypair(101))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestWalletStore_SlotOrderingAndContiguity(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.CreateSlot(ctx, i, testKeypair(i)))
	}

	// Existing index rejected.
	err := store.CreateSlot(ctx, 2, testKeypair(50))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Gap rejected.
	err = store.CreateSlot(ctx, 6, testKeypair(60))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	slots, err := store.LoadAllSlots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	for i, slot := range slots {
		assert.Equal(t, i, slot.Index)
		assert.Equal(t, fmt.Sprintf("pgaddr%d", i), slot.Keypair.Address)
	}

	count, err := store.CountSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestWalletStore_MainDoesNotCountAsSlot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	require.NoError(t, store.CreateMain(ctx, testKeypair(0)))

	count, err := store.CountSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	slots, err := store.LoadAllSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
