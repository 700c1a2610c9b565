package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

// TransferLogStore implements storage.TransferLogStore using ClickHouse.
// The transfer log is an append-only archive; MergeTree's lack of unique
// constraints is acceptable because batch IDs are generated fresh per run.
type TransferLogStore struct {
	conn *Conn
}

// NewTransferLogStore creates a new TransferLogStore.
func NewTransferLogStore(conn *Conn) *TransferLogStore {
	return &TransferLogStore{conn: conn}
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := s.conn.Exec(ctx, query,
		rec.BatchID, rec.Operation, int32(rec.SlotIndex), rec.Address,
		rec.Lamports, rec.Signature, rec.Err, uint64(rec.Timestamp),
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
		WHERE batch_id = ?
		ORDER BY slot_index ASC
	`

	rows, err := s.conn.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query transfer log: %w", err)
	}
	defer rows.Close()

	var result []*domain.TransferRecord
	for rows.Next() {
		rec := &domain.TransferRecord{}
		var slotIndex int32
		var timestamp uint64
		if err := rows.Scan(
			&rec.BatchID, &rec.Operation, &slotIndex, &rec.Address,
			&rec.Lamports, &rec.Signature, &rec.Err, &timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}
		rec.SlotIndex = int(slotIndex)
		rec.Timestamp = int64(timestamp)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer log: %w", err)
	}
	return result, nil
}
