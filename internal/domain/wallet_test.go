package domain

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
)

func TestValidateAddress_RealKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	addr := base58.Encode(pub)
	if err := ValidateAddress(addr); err != nil {
		t.Errorf("ValidateAddress(%s) failed: %v", addr, err)
	}
}

func TestValidateAddress_Malformed(t *testing.T) {
	cases := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"bad base58", "0OIl+/"},
		{"too short", "abc"},
		{"too long", "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofMRR3UpMxJiGnNyYc4dJKyfL3R1hxUyvkqFjHYdEXKKn6Qk"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateAddress(tc.addr); err == nil {
				t.Errorf("expected error for %q, got nil", tc.addr)
			}
		})
	}
}

func TestWalletSlot_IsMain(t *testing.T) {
	main := &WalletSlot{Index: MainSlotIndex}
	if !main.IsMain() {
		t.Error("main slot not recognized")
	}

	sub := &WalletSlot{Index: 0}
	if sub.IsMain() {
		t.Error("distributed slot 0 misclassified as main")
	}
}

func TestTransferOutcome_Succeeded(t *testing.T) {
	ok := &TransferOutcome{Signature: "sig"}
	if !ok.Succeeded() {
		t.Error("outcome with signature should succeed")
	}

	failed := &TransferOutcome{Err: "timeout"}
	if failed.Succeeded() {
		t.Error("outcome with error should not succeed")
	}
}
