package stub

import (
	"context"
	"fmt"
	"sync"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/solana"
)

// Transfer records one executed transfer.
type Transfer struct {
	From     string
	To       string
	Lamports uint64
	Memo     string
}

// Chain implements solana.BalanceOracle and solana.TransferExecutor for
// testing. It keeps balances in memory and applies transfers to them,
// charging Fee lamports from the source per transfer.
type Chain struct {
	mu sync.Mutex

	// Balances maps address to lamports.
	Balances map[string]uint64

	// FailTo forces transfers to a destination address to fail.
	FailTo map[string]error

	// FailFrom forces transfers from a source address to fail.
	FailFrom map[string]error

	// Fee charged from the source on every successful transfer.
	Fee uint64

	// Transfers records successful transfers in execution order.
	Transfers []Transfer

	// TransferCalls counts Transfer invocations, including failed ones.
	TransferCalls int

	sigCounter int
}

// NewChain creates a stub chain with the default network fee.
func NewChain() *Chain {
	return &Chain{
		Balances: make(map[string]uint64),
		FailTo:   make(map[string]error),
		FailFrom: make(map[string]error),
		Fee:      5000,
	}
}

// GetBalance returns the stored balance of the address. Unknown addresses
// have a zero balance, matching a real node's view of unfunded accounts.
func (c *Chain) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[address], nil
}

// Transfer moves lamports between stored balances and returns a synthetic
// signature.
func (c *Chain) Transfer(_ context.Context, from domain.Keypair, to string, lamports uint64, memo string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.TransferCalls++

	if err, ok := c.FailTo[to]; ok {
		return "", err
	}
	if err, ok := c.FailFrom[from.Address]; ok {
		return "", err
	}

	balance := c.Balances[from.Address]
	if balance < lamports+c.Fee {
		return "", fmt.Errorf("%w: have %d, need %d", solana.ErrInsufficientBalance, balance, lamports+c.Fee)
	}

	c.Balances[from.Address] = balance - lamports - c.Fee
	c.Balances[to] += lamports

	c.sigCounter++
	sig := fmt.Sprintf("stub-sig-%d", c.sigCounter)
	c.Transfers = append(c.Transfers, Transfer{
		From:     from.Address,
		To:       to,
		Lamports: lamports,
		Memo:     memo,
	})
	return sig, nil
}

// Compile-time interface checks.
var (
	_ solana.BalanceOracle    = (*Chain)(nil)
	_ solana.TransferExecutor = (*Chain)(nil)
)
