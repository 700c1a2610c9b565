package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

// TransferLogStore is an in-memory implementation of storage.TransferLogStore.
type TransferLogStore struct {
	mu      sync.RWMutex
	records []*domain.TransferRecord
}

// NewTransferLogStore creates a new in-memory transfer log store.
func NewTransferLogStore() *TransferLogStore {
	return &TransferLogStore{}
}

// Append records one transfer outcome.
func (s *TransferLogStore) Append(_ context.Context, rec *domain.TransferRecord) error {
	if rec == nil || rec.BatchID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copyRec := *rec
	s.records = append(s.records, &copyRec)
	return nil
}

// GetByBatchID returns all records for a batch, ordered by slot index ASC.
func (s *TransferLogStore) GetByBatchID(_ context.Context, batchID string) ([]*domain.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransferRecord
	for _, rec := range s.records {
		if rec.BatchID == batchID {
			copyRec := *rec
			result = append(result, &copyRec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SlotIndex < result[j].SlotIndex
	})

	return result, nil
}

var _ storage.TransferLogStore = (*TransferLogStore)(nil)
