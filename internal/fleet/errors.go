package fleet

import "errors"

// Precondition failures. These abort a batch before any transfer is
// attempted; per-transfer failures never surface as errors, they are
// recorded in the BatchResult instead.
var (
	// ErrMissingMainWallet is returned when an operation requires the main
	// wallet and none has been created.
	ErrMissingMainWallet = errors.New("main wallet does not exist")

	// ErrInsufficientFunds is returned when the main wallet cannot cover the
	// requested distribution plus estimated fees.
	ErrInsufficientFunds = errors.New("insufficient funds in main wallet")

	// ErrInvalidRequest is returned for malformed batch requests.
	ErrInvalidRequest = errors.New("invalid request")
)
