// Package lamports converts between decimal SOL strings and lamport amounts
// using string arithmetic. Floats are never used for money.
package lamports

import (
	"fmt"
	"strconv"
	"strings"
)

// SOL has 9 decimal places.
const Decimals = 9

// PerSOL is the number of lamports in one SOL.
const PerSOL = 1_000_000_000

// ToSOL formats a lamport amount as a decimal SOL string.
// Example: ToSOL(24981836) = "0.024981836".
func ToSOL(lamports uint64) string {
	s := strconv.FormatUint(lamports, 10)

	for len(s) <= Decimals {
		s = "0" + s
	}

	pos := len(s) - Decimals
	return s[:pos] + "." + s[pos:]
}

// FromSOL parses a decimal SOL string into lamports.
// Fractional digits beyond the ninth are rejected rather than truncated.
func FromSOL(sol string) (uint64, error) {
	sol = strings.TrimSpace(sol)
	if sol == "" {
		return 0, fmt.Errorf("empty amount")
	}

	parts := strings.Split(sol, ".")

	if len(parts) == 1 {
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse amount %q: %w", sol, err)
		}
		if n > (1<<64-1)/PerSOL {
			return 0, fmt.Errorf("amount %q overflows lamports", sol)
		}
		return n * PerSOL, nil
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal amount %q", sol)
	}

	whole, frac := parts[0], parts[1]
	if whole == "" {
		whole = "0"
	}
	if frac == "" {
		return 0, fmt.Errorf("invalid decimal amount %q", sol)
	}
	if len(frac) > Decimals {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", sol, Decimals)
	}
	frac += strings.Repeat("0", Decimals-len(frac))

	n, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", sol, err)
	}
	return n, nil
}
