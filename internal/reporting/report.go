package reporting

import "time"

// BatchReport summarizes one archived batch for human review.
type BatchReport struct {
	// Metadata
	GeneratedAt time.Time
	BatchID     string
	Operation   string

	// Aggregates
	Attempted    int
	Succeeded    int
	Failed       int
	TotalMoved   uint64 // lamports, confirmed transfers only
	FirstAttempt int64  // Unix ms
	LastAttempt  int64  // Unix ms

	// Per-transfer rows, sorted by slot index
	Rows []TransferRow
}

// TransferRow represents one transfer in the report tables.
type TransferRow struct {
	SlotIndex int
	Address   string
	Lamports  uint64
	Signature string
	Err       string
	Timestamp int64 // Unix ms
}

// Confirmed reports whether the transfer reached the chain.
func (r *TransferRow) Confirmed() bool {
	return r.Signature != ""
}
