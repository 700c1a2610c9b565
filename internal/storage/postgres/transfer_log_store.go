package postgres

import (
	"context"
	"fmt"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

// TransferLogStore implements storage.TransferLogStore using PostgreSQL.
type TransferLogStore struct {
	pool *Pool
}

// NewTransferLogStore creates a new TransferLogStore.
func NewTransferLogStore(pool *Pool) *TransferLogStore {
	return &TransferLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransferLogStore = (*TransferLogStore)(nil)

// Append records one transfer outcome.
func (s *TransferLogStore) Append(ctx context.Context, rec *domain.TransferRecord) error {
	if rec == nil || rec.BatchID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transfer_log (
			batch_id, operation, slot_index, address, lamports, signature, error, timestamp_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.pool.Exec(ctx, query,
		rec.BatchID, rec.Operation, rec.SlotIndex, rec.Address,
		int64(rec.Lamports), rec.Signature, rec.Err, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert transfer record: %w", err)
	}
	return nil
}

// GetByBatchID returns all records for a batch, ordered by slot index ASC.
func (s *TransferLogStore) GetByBatchID(ctx context.Context, batchID string) ([]*domain.TransferRecord, error) {
	query := `
		SELECT batch_id, operation, slot_index, address, lamports, signature, error, timestamp_ms
		FROM transfer_log
		WHERE batch_id = $1
		ORDER BY slot_index ASC
	`

	rows, err := s.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query transfer log: %w", err)
	}
	defer rows.Close()

	var result []*domain.TransferRecord
	for rows.Next() {
		rec := &domain.TransferRecord{}
		var lamports int64
		if err := rows.Scan(
			&rec.BatchID, &rec.Operation, &rec.SlotIndex, &rec.Address,
			&lamports, &rec.Signature, &rec.Err, &rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}
		rec.Lamports = uint64(lamports)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer log: %w", err)
	}
	return result, nil
}
