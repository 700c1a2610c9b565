// Package fleet provides batch transfer orchestration over the wallet
// hierarchy. It coordinates: distribute (main → N wallets), collect
// (N wallets → main) and status reporting.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-wallet-fleet/internal/domain"
	"solana-wallet-fleet/internal/idhash"
	"solana-wallet-fleet/internal/observability"
	"solana-wallet-fleet/internal/solana"
	"solana-wallet-fleet/internal/storage"
)

// Default batch tuning values.
const (
	// DefaultFeeEstimate is the assumed network fee per transfer, in
	// lamports. Actual fees vary; this is a planning estimate only.
	DefaultFeeEstimate uint64 = 5000

	// DefaultPacingDelay is the pause between successive transfers in a
	// batch, to stay under upstream RPC rate limits.
	DefaultPacingDelay = 500 * time.Millisecond
)

// Orchestrator sequences multiple transfers to implement distribute,
// collect, and status operations. Execution within one batch is strictly
// sequential: each transfer is fully confirmed before the next begins.
// Concurrent invocations are not safe; the caller serializes.
type Orchestrator struct {
	wallets  storage.WalletStore
	oracle   solana.BalanceOracle
	executor solana.TransferExecutor

	// Optional transfer archive. Append failures never fail a batch.
	transferLog storage.TransferLogStore

	keygen      func() domain.Keypair
	feeEstimate uint64
	pacingDelay time.Duration

	logger  *log.Logger
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required collaborators
	WalletStore storage.WalletStore
	Oracle      solana.BalanceOracle
	Executor    solana.TransferExecutor

	// Optional transfer archive sink
	TransferLog storage.TransferLogStore

	// Keygen produces keypairs for new slots. Defaults to solana.GenerateKeypair.
	Keygen func() domain.Keypair

	// FeeEstimate is the per-transfer fee assumption in lamports.
	// Defaults to DefaultFeeEstimate.
	FeeEstimate uint64

	// PacingDelay is the inter-transfer delay. Defaults to DefaultPacingDelay.
	PacingDelay time.Duration

	// Logger defaults to the standard logger.
	Logger  *log.Logger
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		wallets:     opts.WalletStore,
		oracle:      opts.Oracle,
		executor:    opts.Executor,
		transferLog: opts.TransferLog,
		keygen:      opts.Keygen,
		feeEstimate: opts.FeeEstimate,
		pacingDelay: opts.PacingDelay,
		logger:      opts.Logger,
		verbose:     opts.Verbose,
	}
	if o.keygen == nil {
		o.keygen = solana.GenerateKeypair
	}
	if o.feeEstimate == 0 {
		o.feeEstimate = DefaultFeeEstimate
	}
	if o.pacingDelay == 0 {
		o.pacingDelay = DefaultPacingDelay
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}

// Distribute moves AmountLamports from the main wallet to each of
// WalletCount distributed wallets, creating missing slots first.
//
// Preconditions fail fast with no side effects: the main wallet must
// exist and its balance must cover walletCount × (amount + fee estimate).
// After preconditions pass, per-transfer failures are recorded in the
// result and never abort the batch.
func (o *Orchestrator) Distribute(ctx context.Context, req domain.DistributionRequest) (*domain.BatchResult, error) {
	if req.WalletCount <= 0 {
		return nil, fmt.Errorf("%w: wallet count must be positive, got %d", ErrInvalidRequest, req.WalletCount)
	}
	if req.AmountLamports == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}

	main, err := o.loadMain(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := o.oracle.GetBalance(ctx, main.Keypair.Address)
	if err != nil {
		return nil, fmt.Errorf("query main balance: %w", err)
	}

	perWallet := req.AmountLamports + o.feeEstimate
	if perWallet < req.AmountLamports {
		return nil, fmt.Errorf("%w: amount overflows", ErrInvalidRequest)
	}
	required := perWallet * uint64(req.WalletCount)
	if required/perWallet != uint64(req.WalletCount) {
		return nil, fmt.Errorf("%w: total amount overflows", ErrInvalidRequest)
	}
	if balance < required {
		return nil, fmt.Errorf("%w: have %d lamports, need %d (%d wallets × %d + fees)",
			ErrInsufficientFunds, balance, required, req.WalletCount, req.AmountLamports)
	}

	if err := o.ensureSlots(ctx, req.WalletCount); err != nil {
		return nil, err
	}

	slots, err := o.wallets.LoadAllSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	if len(slots) > req.WalletCount {
		slots = slots[:req.WalletCount]
	}

	start := time.Now()
	result := &domain.BatchResult{
		BatchID:   idhash.ComputeBatchID(domain.OpDistribute, main.Keypair.Address, start.UnixMilli()),
		Operation: domain.OpDistribute,
	}

	o.log("distribute %s: %d wallets × %d lamports", result.BatchID[:8], req.WalletCount, req.AmountLamports)

	for i, slot := range slots {
		if i > 0 {
			if err := o.pace(ctx); err != nil {
				o.finishBatch(result, start)
				return result, err
			}
		}

		o.attempt(ctx, result, main.Keypair, slot.Keypair.Address, slot.Index, req.AmountLamports, req.Memo)
	}

	o.finishBatch(result, start)
	return result, nil
}

// Collect sweeps every distributed wallet back into the main wallet,
// leaving KeepLamports behind in each. Wallets whose balance cannot cover
// the keep amount plus the fee estimate are skipped silently: nothing
// worth collecting is not a failure. With zero persisted slots the call
// is a successful no-op.
func (o *Orchestrator) Collect(ctx context.Context, req domain.CollectionRequest) (*domain.BatchResult, error) {
	main, err := o.loadMain(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := o.wallets.LoadAllSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	start := time.Now()
	result := &domain.BatchResult{
		BatchID:   idhash.ComputeBatchID(domain.OpCollect, main.Keypair.Address, start.UnixMilli()),
		Operation: domain.OpCollect,
	}

	if len(slots) == 0 {
		result.Success = true
		return result, nil
	}

	o.log("collect %s: %d wallets, keeping %d lamports each", result.BatchID[:8], len(slots), req.KeepLamports)

	attempted := 0
	for _, slot := range slots {
		balance, err := o.oracle.GetBalance(ctx, slot.Keypair.Address)
		if err != nil {
			o.record(ctx, result, domain.TransferOutcome{
				SlotIndex: slot.Index,
				Address:   slot.Keypair.Address,
				Err:       fmt.Sprintf("query balance: %v", err),
			})
			continue
		}

		floor := req.KeepLamports + o.feeEstimate
		if balance <= floor {
			o.log("  wallet %d: balance %d ≤ %d, skipping", slot.Index, balance, floor)
			observability.RecordWalletSkipped()
			continue
		}
		amount := balance - floor

		if attempted > 0 {
			if err := o.pace(ctx); err != nil {
				o.finishBatch(result, start)
				return result, err
			}
		}
		attempted++

		o.attempt(ctx, result, slot.Keypair, main.Keypair.Address, slot.Index, amount, req.Memo)
	}

	o.finishBatch(result, start)
	return result, nil
}

// Status reports current balances across the hierarchy. Pure read: no
// slot creation, no transfers. A missing main wallet is reported as a
// nil Main, not an error.
func (o *Orchestrator) Status(ctx context.Context) (*domain.FleetStatus, error) {
	status := &domain.FleetStatus{}

	main, err := o.wallets.LoadMain(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// tolerated
	case err != nil:
		return nil, fmt.Errorf("load main wallet: %w", err)
	default:
		balance, err := o.oracle.GetBalance(ctx, main.Keypair.Address)
		if err != nil {
			return nil, fmt.Errorf("query main balance: %w", err)
		}
		status.Main = &domain.WalletBalance{
			SlotIndex: domain.MainSlotIndex,
			Address:   main.Keypair.Address,
			Lamports:  balance,
		}
	}

	slots, err := o.wallets.LoadAllSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	for _, slot := range slots {
		balance, err := o.oracle.GetBalance(ctx, slot.Keypair.Address)
		if err != nil {
			return nil, fmt.Errorf("query balance of wallet %d: %w", slot.Index, err)
		}
		status.Distributed = append(status.Distributed, domain.WalletBalance{
			SlotIndex: slot.Index,
			Address:   slot.Keypair.Address,
			Lamports:  balance,
		})
		status.TotalDistributed += balance
	}

	var mainLamports uint64
	if status.Main != nil {
		mainLamports = status.Main.Lamports
	}
	observability.UpdateFleetBalances(mainLamports, status.TotalDistributed, len(slots))

	return status, nil
}

// loadMain fetches the main wallet slot, mapping absence to the
// precondition error.
func (o *Orchestrator) loadMain(ctx context.Context) (*domain.WalletSlot, error) {
	main, err := o.wallets.LoadMain(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMissingMainWallet
	}
	if err != nil {
		return nil, fmt.Errorf("load main wallet: %w", err)
	}
	return main, nil
}

// ensureSlots creates distributed slots until at least n exist. Creation
// is not transactional: an interrupted run leaves already-created slots
// persisted, so re-invoking resumes where it stopped.
func (o *Orchestrator) ensureSlots(ctx context.Context, n int) error {
	existing, err := o.wallets.CountSlots(ctx)
	if err != nil {
		return fmt.Errorf("count slots: %w", err)
	}

	for i := existing; i < n; i++ {
		kp := o.keygen()
		if err := o.wallets.CreateSlot(ctx, i, kp); err != nil {
			return fmt.Errorf("create wallet slot %d: %w", i, err)
		}
		observability.RecordSlotCreated()
		o.log("  created wallet slot %d (%s)", i, kp.Address)
	}
	return nil
}

// attempt runs one transfer and records its outcome. Failures are
// recorded, never propagated.
func (o *Orchestrator) attempt(ctx context.Context, result *domain.BatchResult, from domain.Keypair, to string, slotIndex int, lamports uint64, memo string) {
	observability.RecordTransferAttempt(result.Operation)

	sig, err := o.executor.Transfer(ctx, from, to, lamports, memo)
	observability.RecordTransferOutcome(result.Operation, lamports, err)

	outcome := domain.TransferOutcome{
		SlotIndex: slotIndex,
		Address:   to,
		Lamports:  lamports,
	}
	if result.Operation == domain.OpCollect {
		// Collect outcomes carry the drained wallet's address, not the
		// main destination.
		outcome.Address = from.Address
	}

	if err != nil {
		outcome.Err = err.Error()
		o.log("  wallet %d: transfer failed: %v", slotIndex, err)
	} else {
		outcome.Signature = sig
		o.log("  wallet %d: %d lamports, signature %s", slotIndex, lamports, sig)
	}

	o.record(ctx, result, outcome)
}

// record appends an outcome to the result and archives it.
func (o *Orchestrator) record(ctx context.Context, result *domain.BatchResult, outcome domain.TransferOutcome) {
	result.Outcomes = append(result.Outcomes, outcome)
	if outcome.Succeeded() {
		result.TotalMoved += outcome.Lamports
	} else {
		result.Failures = append(result.Failures,
			fmt.Sprintf("wallet %d (%s): %s", outcome.SlotIndex, outcome.Address, outcome.Err))
	}

	if o.transferLog == nil {
		return
	}
	rec := &domain.TransferRecord{
		BatchID:   result.BatchID,
		Operation: result.Operation,
		SlotIndex: outcome.SlotIndex,
		Address:   outcome.Address,
		Lamports:  outcome.Lamports,
		Signature: outcome.Signature,
		Err:       outcome.Err,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := o.transferLog.Append(ctx, rec); err != nil {
		// The archive is best-effort; a sink outage must not fail the batch.
		o.logger.Printf("[fleet] archive transfer outcome: %v", err)
	}
}

// finishBatch computes the aggregate flags and emits batch metrics.
func (o *Orchestrator) finishBatch(result *domain.BatchResult, start time.Time) {
	result.Success = len(result.Failures) == 0

	status := "success"
	if !result.Success {
		status = "partial_failure"
	}
	observability.RecordBatchRun(result.Operation, status, time.Since(start).Seconds())

	o.log("%s %s: %d/%d transfers confirmed, %d lamports moved",
		result.Operation, result.BatchID[:8],
		len(result.Outcomes)-len(result.Failures), len(result.Outcomes), result.TotalMoved)
}

// pace honors the inter-transfer delay, returning early if ctx is done.
// This is the batch's cancellation point: a cancelled context stops the
// batch between transfers, never mid-transfer.
func (o *Orchestrator) pace(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(o.pacingDelay):
		return nil
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		o.logger.Printf("[fleet] "+format, args...)
	}
}
