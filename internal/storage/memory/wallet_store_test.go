package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/storage"
)

func testKeypair(i int) domain.Keypair {
	return domain.Keypair{
		Address: fmt.Sprintf("addr%d", i),
		Secret:  []byte{byte(i), 1, 2, 3},
	}
}

func TestWalletStore_MainLifecycle(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	has, err := store.HasMain(ctx)
	if err != nil {
		t.Fatalf("HasMain failed: %v", err)
	}
	if has {
		t.Error("HasMain true on empty store")
	}

	if _, err := store.LoadMain(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LoadMain on empty store: got %v, want ErrNotFound", err)
	}

	if err := store.CreateMain(ctx, testKeypair(100)); err != nil {
		t.Fatalf("CreateMain failed: %v", err)
	}

	has, _ = store.HasMain(ctx)
	if !has {
		t.Error("HasMain false after CreateMain")
	}

	main, err := store.LoadMain(ctx)
	if err != nil {
		t.Fatalf("LoadMain failed: %v", err)
	}
	if main.Index != domain.MainSlotIndex {
		t.Errorf("main slot index = %d, want %d", main.Index, domain.MainSlotIndex)
	}
	if main.Keypair.Address != "addr100" {
		t.Errorf("main address = %s, want addr100", main.Keypair.Address)
	}
}

func TestWalletStore_DuplicateMain(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	if err := store.CreateMain(ctx, testKeypair(1)); err != nil {
		t.Fatalf("CreateMain failed: %v", err)
	}

	err := store.CreateMain(ctx, testKeypair(2))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("second CreateMain: got %v, want ErrDuplicateKey", err)
	}
}

func TestWalletStore_SlotOrdering(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.CreateSlot(ctx, i, testKeypair(i)); err != nil {
			t.Fatalf("CreateSlot(%d) failed: %v", i, err)
		}
	}

	slots, err := store.LoadAllSlots(ctx)
	if err != nil {
		t.Fatalf("LoadAllSlots failed: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}

	for i, slot := range slots {
		if slot.Index != i {
			t.Errorf("slot at position %d has index %d", i, slot.Index)
		}
		if slot.Keypair.Address != fmt.Sprintf("addr%d", i) {
			t.Errorf("slot %d address = %s", i, slot.Keypair.Address)
		}
	}

	count, err := store.CountSlots(ctx)
	if err != nil {
		t.Fatalf("CountSlots failed: %v", err)
	}
	if count != 5 {
		t.Errorf("CountSlots = %d, want 5", count)
	}
}

func TestWalletStore_NoGapsNoOverwrite(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	if err := store.CreateSlot(ctx, 0, testKeypair(0)); err != nil {
		t.Fatalf("CreateSlot(0) failed: %v", err)
	}

	// Re-creating an existing index is rejected.
	if err := store.CreateSlot(ctx, 0, testKeypair(9)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("CreateSlot(0) twice: got %v, want ErrDuplicateKey", err)
	}

	// Skipping an index is rejected.
	if err := store.CreateSlot(ctx, 2, testKeypair(2)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateSlot(2) with gap: got %v, want ErrInvalidInput", err)
	}

	count, _ := store.CountSlots(ctx)
	if count != 1 {
		t.Errorf("CountSlots = %d, want 1", count)
	}
}

func TestWalletStore_CopiesSecrets(t *testing.T) {
	store := NewWalletStore()
	ctx := context.Background()

	kp := testKeypair(0)
	if err := store.CreateSlot(ctx, 0, kp); err != nil {
		t.Fatalf("CreateSlot failed: %v", err)
	}

	// Mutating the caller's secret must not affect the stored copy.
	kp.Secret[0] = 0xFF

	slots, _ := store.LoadAllSlots(ctx)
	if slots[0].Keypair.Secret[0] == 0xFF {
		t.Error("store shares secret backing array with caller")
	}
}
