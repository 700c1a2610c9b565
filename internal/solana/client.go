package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-wallet-fleet/internal/domain"
)

// Default configuration values.
const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultMaxDelay       = 10 * time.Second
	DefaultBackoffMult    = 2.0
)

// Client implements BalanceOracle and TransferExecutor against a Solana
// JSON-RPC endpoint. Reads retry with exponential backoff; transaction
// submission is never retried (a resend could double-spend if the first
// attempt landed).
type Client struct {
	rpc            *rpc.Client
	watcher        ConfirmationWatcher // nil → poll getSignatureStatuses
	confirmTimeout time.Duration
	pollInterval   time.Duration
	maxRetries     int
	retryDelay     time.Duration
	maxDelay       time.Duration
	backoffMult    float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithConfirmTimeout sets how long to wait for confirmation of a
// submitted transaction.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.confirmTimeout = d
	}
}

// WithPollInterval sets the confirmation polling interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithMaxRetries sets maximum retry attempts for read calls.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithConfirmationWatcher sets a WebSocket confirmation watcher. When set,
// confirmations arrive via signature subscription instead of polling.
func WithConfirmationWatcher(w ConfirmationWatcher) ClientOption {
	return func(c *Client) {
		c.watcher = w
	}
}

// NewClient creates a new Solana chain client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		rpc:            rpc.New(endpoint),
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		maxDelay:       DefaultMaxDelay,
		backoffMult:    DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface checks.
var (
	_ BalanceOracle    = (*Client)(nil)
	_ TransferExecutor = (*Client)(nil)
)

// GetBalance returns the confirmed balance of the address in lamports.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	var lamports uint64
	err = c.withRetry(ctx, func() error {
		out, err := c.rpc.GetBalance(ctx, pub, rpc.CommitmentConfirmed)
		if err != nil {
			return err
		}
		lamports = out.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("get balance of %s: %w", address, err)
	}
	return lamports, nil
}

// Transfer builds, signs, submits and confirms one system transfer.
func (c *Client) Transfer(ctx context.Context, from domain.Keypair, to string, lamports uint64, memo string) (string, error) {
	toPub, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	if len(from.Secret) != 64 {
		return "", fmt.Errorf("source secret must be a 64-byte private key, got %d bytes", len(from.Secret))
	}
	signer := solana.PrivateKey(from.Secret)
	fromPub := signer.PublicKey()
	if fromPub.String() != from.Address {
		return "", fmt.Errorf("source secret does not match address %s", from.Address)
	}

	var recent *rpc.GetLatestBlockhashResult
	err = c.withRetry(ctx, func() error {
		recent, err = c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	instructions := []solana.Instruction{
		system.NewTransferInstruction(lamports, fromPub, toPub).Build(),
	}
	if memo != "" {
		instructions = append(instructions, solana.NewInstruction(
			solana.MemoProgramID,
			solana.AccountMetaSlice{solana.Meta(fromPub).SIGNER()},
			[]byte(memo),
		))
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(fromPub),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if fromPub.Equals(key) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", classifySendError(err)
	}

	if err := c.confirm(ctx, sig); err != nil {
		return "", err
	}
	return sig.String(), nil
}

// confirm waits for the signature to reach confirmed commitment, via the
// WebSocket watcher when configured, otherwise by polling.
func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	if c.watcher != nil {
		if err := c.watcher.WaitForSignature(ctx, sig.String()); err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("%w: %s", ErrTimeout, sig)
			}
			return err
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("%w: %s", ErrTimeout, sig)
			}
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}

		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			continue // transient; keep polling until the deadline
		}
		if len(out.Value) == 0 || out.Value[0] == nil {
			continue
		}
		status := out.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transaction %s failed on-chain: %v", sig, status.Err)
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return nil
		}
	}
}

// withRetry runs fn with exponential backoff. Only read-path calls go
// through here.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
