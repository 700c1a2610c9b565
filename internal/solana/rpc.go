package solana

import (
	"context"

	"solana-wallet-fleet/internal/domain"
)

// BalanceOracle reports the current spendable balance of an address.
type BalanceOracle interface {
	// GetBalance returns the balance of the address in lamports.
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// TransferExecutor submits and confirms a single on-chain transfer.
type TransferExecutor interface {
	// Transfer moves lamports from the source keypair to the destination
	// address, returning the confirmed transaction signature. A non-empty
	// memo is attached via the memo program.
	Transfer(ctx context.Context, from domain.Keypair, to string, lamports uint64, memo string) (string, error)
}

// ConfirmationWatcher waits for a submitted signature to reach confirmed
// commitment.
type ConfirmationWatcher interface {
	// WaitForSignature blocks until the signature is confirmed, the
	// transaction fails on-chain, or ctx is done.
	WaitForSignature(ctx context.Context, signature string) error

	// Close releases the watcher's connection.
	Close() error
}
