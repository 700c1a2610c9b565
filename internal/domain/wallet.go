package domain

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Slot index assigned to the main wallet. Distributed slots start at 0.
const MainSlotIndex = -1

// Keypair is a signing credential bound to exactly one wallet slot.
// Secret is the full 64-byte ed25519 private key and must never be logged.
type Keypair struct {
	Address string // base58-encoded public key
	Secret  []byte
}

// WalletSlot is a named position in the wallet hierarchy: the single main
// slot or one of a contiguous, gap-free sequence of distributed slots.
type WalletSlot struct {
	Index     int // MainSlotIndex for main, >= 0 for distributed
	Keypair   Keypair
	CreatedAt int64 // Unix timestamp (ms)
}

// IsMain reports whether the slot holds the main wallet.
func (s *WalletSlot) IsMain() bool {
	return s.Index == MainSlotIndex
}

// ValidateAddress checks that addr is a well-formed Solana wallet address:
// base58, 32 bytes, and a valid ed25519 curve point. Wallet addresses are
// always on-curve; off-curve program addresses are not valid fleet members.
func ValidateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("address must be 32 bytes, got %d", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("address is not on the ed25519 curve")
	}
	return nil
}
