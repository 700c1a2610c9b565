package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

// Wallet slot kinds as stored in the wallet_slots table.
const (
	kindMain        = "main"
	kindDistributed = "distributed"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
// The table is the persisted slot index: ordering comes from the integer
// slot_index column, never from enumeration order.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// HasMain reports whether the main wallet slot exists.
func (s *WalletStore) HasMain(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallet_slots WHERE kind = $1)`, kindMain,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check main wallet: %w", err)
	}
	return exists, nil
}

// CreateMain persists the main wallet keypair.
func (s *WalletStore) CreateMain(ctx context.Context, kp domain.Keypair) error {
	if kp.Address == "" || len(kp.Secret) == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallet_slots (kind, slot_index, address, secret, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query,
		kindMain, domain.MainSlotIndex, kp.Address, kp.Secret, time.Now().UnixMilli(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert main wallet: %w", err)
	}
	return nil
}

// LoadMain returns the main wallet slot.
func (s *WalletStore) LoadMain(ctx context.Context) (*domain.WalletSlot, error) {
	query := `
		SELECT slot_index, address, secret, created_at
		FROM wallet_slots
		WHERE kind = $1
	`

	slot := &domain.WalletSlot{}
	err := s.pool.QueryRow(ctx, query, kindMain).Scan(
		&slot.Index, &slot.Keypair.Address, &slot.Keypair.Secret, &slot.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load main wallet: %w", err)
	}
	return slot, nil
}

// CreateSlot persists a new distributed slot at the given index. The index
// must equal the current count; the check and insert run in one transaction
// so a concurrent creator cannot leave a gap.
func (s *WalletStore) CreateSlot(ctx context.Context, index int, kp domain.Keypair) error {
	if kp.Address == "" || len(kp.Secret) == 0 || index < 0 {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_slots WHERE kind = $1`, kindDistributed,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count slots: %w", err)
	}

	if index < count {
		return storage.ErrDuplicateKey
	}
	if index > count {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallet_slots (kind, slot_index, address, secret, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, query,
		kindDistributed, index, kp.Address, kp.Secret, time.Now().UnixMilli(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert slot %d: %w", index, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadAllSlots returns every distributed slot ordered by index ASC.
func (s *WalletStore) LoadAllSlots(ctx context.Context) ([]*domain.WalletSlot, error) {
	query := `
		SELECT slot_index, address, secret, created_at
		FROM wallet_slots
		WHERE kind = $1
		ORDER BY slot_index ASC
	`

	rows, err := s.pool.Query(ctx, query, kindDistributed)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletSlot
	for rows.Next() {
		slot := &domain.WalletSlot{}
		if err := rows.Scan(&slot.Index, &slot.Keypair.Address, &slot.Keypair.Secret, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		result = append(result, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return result, nil
}

// CountSlots returns the number of persisted distributed slots.
func (s *WalletStore) CountSlots(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_slots WHERE kind = $1`, kindDistributed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	return count, nil
}
