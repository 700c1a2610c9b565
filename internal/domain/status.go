package domain

// WalletBalance pairs a slot with its current spendable balance.
type WalletBalance struct {
	SlotIndex int
	Address   string
	Lamports  uint64
}

// FleetStatus is a read-only snapshot of the wallet hierarchy. Main is nil
// when no main wallet has been created yet; that is not an error.
type FleetStatus struct {
	Main             *WalletBalance
	Distributed      []WalletBalance // ordered by slot index
	TotalDistributed uint64          // sum of distributed balances
}
