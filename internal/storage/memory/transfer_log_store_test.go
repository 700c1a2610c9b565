package memory

import (
	"context"
	"errors"
	"testing"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

func TestTransferLogStore_AppendAndGet(t *testing.T) {
	store := NewTransferLogStore()
	ctx := context.Background()

	records := []*domain.TransferRecord{
		{BatchID: "b1", Operation: domain.OpDistribute, SlotIndex: 2, Address: "addr2", Lamports: 100, Signature: "sig2"},
		{BatchID: "b1", Operation: domain.OpDistribute, SlotIndex: 0, Address: "addr0", Lamports: 100, Signature: "sig0"},
		{BatchID: "b2", Operation: domain.OpCollect, SlotIndex: 1, Address: "addr1", Lamports: 50, Err: "timeout"},
		{BatchID: "b1", Operation: domain.OpDistribute, SlotIndex: 1, Address: "addr1", Lamports: 100, Err: "network error"},
	}

	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	result, err := store.GetByBatchID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByBatchID failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 records for b1, got %d", len(result))
	}

	// Ordered by slot index.
	for i, rec := range result {
		if rec.SlotIndex != i {
			t.Errorf("record at position %d has slot index %d", i, rec.SlotIndex)
		}
	}

	if result[1].Err != "network error" {
		t.Errorf("slot 1 error = %q, want 'network error'", result[1].Err)
	}
}

func TestTransferLogStore_InvalidInput(t *testing.T) {
	store := NewTransferLogStore()
	ctx := context.Background()

	if err := store.Append(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Append(nil): got %v, want ErrInvalidInput", err)
	}
	if err := store.Append(ctx, &domain.TransferRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Append without batch id: got %v, want ErrInvalidInput", err)
	}
}

func TestTransferLogStore_UnknownBatch(t *testing.T) {
	store := NewTransferLogStore()

	result, err := store.GetByBatchID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByBatchID failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected no records, got %d", len(result))
	}
}
