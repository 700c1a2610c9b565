package storage

import (
	"context"

	"solana-wallet-fleet/internal/domain"
)

// WalletStore persists the wallet hierarchy: one main slot and an ordered,
// contiguous sequence of distributed slots. Slots are append-only — they are
// never deleted or overwritten, so enumeration order is stable across runs.
type WalletStore interface {
	// HasMain reports whether the main wallet slot exists.
	HasMain(ctx context.Context) (bool, error)

	// CreateMain persists the main wallet keypair.
	// Returns ErrDuplicateKey if a main wallet already exists.
	CreateMain(ctx context.Context, kp domain.Keypair) error

	// LoadMain returns the main wallet slot. Returns ErrNotFound if absent.
	LoadMain(ctx context.Context) (*domain.WalletSlot, error)

	// CreateSlot persists a new distributed slot at the given index.
	// The index must equal the current slot count (no gaps); otherwise
	// ErrInvalidInput. Returns ErrDuplicateKey if the index is taken.
	CreateSlot(ctx context.Context, index int, kp domain.Keypair) error

	// LoadAllSlots returns every distributed slot ordered by index ASC.
	LoadAllSlots(ctx context.Context) ([]*domain.WalletSlot, error)

	// CountSlots returns the number of persisted distributed slots.
	CountSlots(ctx context.Context) (int, error)
}

// TransferLogStore archives per-transfer outcomes for later reporting.
// An append failure must never fail a batch; callers log and continue.
type TransferLogStore interface {
	// Append records one transfer outcome.
	Append(ctx context.Context, rec *domain.TransferRecord) error

	// GetByBatchID returns all records for a batch, ordered by slot index ASC.
	GetByBatchID(ctx context.Context, batchID string) ([]*domain.TransferRecord, error)
}
