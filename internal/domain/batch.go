package domain

// Batch operation kinds.
const (
	OpDistribute = "distribute"
	OpCollect    = "collect"
)

// DistributionRequest describes a fan-out: move AmountLamports from the main
// wallet to each of WalletCount distributed wallets.
type DistributionRequest struct {
	WalletCount    int
	AmountLamports uint64 // per destination wallet
	Memo           string
}

// CollectionRequest describes a fan-in: sweep every distributed wallet back
// to the main wallet, leaving KeepLamports behind in each.
type CollectionRequest struct {
	KeepLamports uint64
	Memo         string
}

// TransferOutcome records the result of one attempted transfer within a
// batch. Exactly one of Signature and Err is set.
type TransferOutcome struct {
	SlotIndex int    // distributed slot the transfer targeted or drained
	Address   string // that slot's address
	Lamports  uint64
	Signature string
	Err       string
}

// Succeeded reports whether the transfer was confirmed.
func (o *TransferOutcome) Succeeded() bool {
	return o.Signature != ""
}

// BatchResult aggregates one distribute or collect invocation. It is a
// return value, never persisted as state: a fresh one is built per call.
type BatchResult struct {
	BatchID    string
	Operation  string // OpDistribute or OpCollect
	Success    bool   // true iff zero per-transfer failures
	Outcomes   []TransferOutcome
	TotalMoved uint64 // sum of lamports for confirmed transfers
	Failures   []string
}

// TransferRecord is one archived transfer outcome, written to the transfer
// log after each attempt for later reporting.
type TransferRecord struct {
	BatchID   string
	Operation string
	SlotIndex int
	Address   string
	Lamports  uint64
	Signature string
	Err       string
	Timestamp int64 // Unix timestamp (ms)
}
