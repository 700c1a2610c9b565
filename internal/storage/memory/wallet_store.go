package memory

import (
	"context"
	"sync"
	"time"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu    sync.RWMutex
	main  *domain.WalletSlot
	slots []*domain.WalletSlot // index i holds distributed slot i
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{}
}

// HasMain reports whether the main wallet slot exists.
func (s *WalletStore) HasMain(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.main != nil, nil
}

// CreateMain persists the main wallet keypair. Returns ErrDuplicateKey if
// a main wallet already exists.
func (s *WalletStore) CreateMain(_ context.Context, kp domain.Keypair) error {
	if kp.Address == "" || len(kp.Secret) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.main != nil {
		return storage.ErrDuplicateKey
	}

	s.main = &domain.WalletSlot{
		Index:     domain.MainSlotIndex,
		Keypair:   copyKeypair(kp),
		CreatedAt: time.Now().UnixMilli(),
	}
	return nil
}

// LoadMain returns the main wallet slot. Returns ErrNotFound if absent.
func (s *WalletStore) LoadMain(_ context.Context) (*domain.WalletSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.main == nil {
		return nil, storage.ErrNotFound
	}

	slot := *s.main
	slot.Keypair = copyKeypair(s.main.Keypair)
	return &slot, nil
}

// CreateSlot persists a new distributed slot at the given index. The index
// must equal the current count (no gaps).
func (s *WalletStore) CreateSlot(_ context.Context, index int, kp domain.Keypair) error {
	if kp.Address == "" || len(kp.Secret) == 0 || index < 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < len(s.slots) {
		return storage.ErrDuplicateKey
	}
	if index > len(s.slots) {
		return storage.ErrInvalidInput
	}

	s.slots = append(s.slots, &domain.WalletSlot{
		Index:     index,
		Keypair:   copyKeypair(kp),
		CreatedAt: time.Now().UnixMilli(),
	})
	return nil
}

// LoadAllSlots returns every distributed slot ordered by index ASC.
func (s *WalletStore) LoadAllSlots(_ context.Context) ([]*domain.WalletSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WalletSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		copySlot := *slot
		copySlot.Keypair = copyKeypair(slot.Keypair)
		result = append(result, &copySlot)
	}
	return result, nil
}

// CountSlots returns the number of persisted distributed slots.
func (s *WalletStore) CountSlots(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots), nil
}

func copyKeypair(kp domain.Keypair) domain.Keypair {
	secret := make([]byte, len(kp.Secret))
	copy(secret, kp.Secret)
	return domain.Keypair{Address: kp.Address, Secret: secret}
}

var _ storage.WalletStore = (*WalletStore)(nil)
