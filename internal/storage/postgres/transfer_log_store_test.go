package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

func TestTransferLogStore_AppendAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferLogStore(pool)
	ctx := context.Background()

	records := []*domain.TransferRecord{
		{BatchID: "b1", Operation: domain.OpDistribute, SlotIndex: 1, Address: "a1", Lamports: 200, Err: "timeout", Timestamp: 1700000001000},
		{BatchID: "b1", Operation: domain.OpDistribute, SlotIndex: 0, Address: "a0", Lamports: 200, Signature: "sig0", Timestamp: 1700000000000},
		{BatchID: "b2", Operation: domain.OpCollect, SlotIndex: 0, Address: "a0", Lamports: 95, Signature: "sigX", Timestamp: 1700000002000},
	}
	for _, rec := range records {
		require.NoError(t, store.Append(ctx, rec))
	}

	result, err := store.GetByBatchID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, 0, result[0].SlotIndex)
	assert.Equal(t, "sig0", result[0].Signature)
	assert.Empty(t, result[0].Err)

	assert.Equal(t, 1, result[1].SlotIndex)
	assert.Empty(t, result[1].Signature)
	assert.Equal(t, "timeout", result[1].Err)
	assert.Equal(t, uint64(200), result[1].Lamports)
}

func TestTransferLogStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferLogStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Append(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Append(ctx, &domain.TransferRecord{}), storage.ErrInvalidInput)
}
