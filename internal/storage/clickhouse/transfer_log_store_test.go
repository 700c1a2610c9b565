package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

func TestTransferLogStore_AppendAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferLogStore(conn)
	ctx := context.Background()

	records := []*domain.TransferRecord{
		{BatchID: "b1", Operation: domain.OpCollect, SlotIndex: 2, Address: "a2", Lamports: 45, Signature: "sig2", Timestamp: 1700000002000},
		{BatchID: "b1", Operation: domain.OpCollect, SlotIndex: 0, Address: "a0", Lamports: 95, Signature: "sig0", Timestamp: 1700000000000},
		{BatchID: "other", Operation: domain.OpDistribute, SlotIndex: 0, Address: "a0", Lamports: 100, Err: "network error", Timestamp: 1700000001000},
	}
	for _, rec := range records {
		require.NoError(t, store.Append(ctx, rec))
	}

	result, err := store.GetByBatchID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, 0, result[0].SlotIndex)
	assert.Equal(t, "sig0", result[0].Signature)
	assert.Equal(t, uint64(95), result[0].Lamports)

	assert.Equal(t, 2, result[1].SlotIndex)
	assert.Equal(t, "sig2", result[1].Signature)
	assert.Equal(t, int64(1700000002000), result[1].Timestamp)
}

func TestTransferLogStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferLogStore(conn)
	ctx := context.Background()

	assert.ErrorIs(t, store.Append(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Append(ctx, &domain.TransferRecord{}), storage.ErrInvalidInput)
}
