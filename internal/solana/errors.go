package solana

import (
	"errors"
	"fmt"
	"strings"
)

// Transfer failure kinds. Callers use errors.Is to classify per-transfer
// failures; anything else is a network-level error.
var (
	// ErrInvalidAddress is returned when a destination address cannot be parsed.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInsufficientBalance is returned when the source cannot cover the
	// transfer amount plus the network fee at execution time.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTimeout is returned when a submitted transaction is not confirmed
	// within the confirmation window.
	ErrTimeout = errors.New("confirmation timeout")
)

// classifySendError maps RPC send failures onto the transfer error
// taxonomy. The RPC surface reports balance problems as preflight
// simulation errors with well-known message fragments.
func classifySendError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient lamports") || strings.Contains(msg, "insufficient funds") {
		return fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
	}
	return fmt.Errorf("send transaction: %w", err)
}
