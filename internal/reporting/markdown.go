package reporting

import (
	"fmt"
	"strings"
	"time"

	"solana-wallet-fleet/internal/lamports"
)

// RenderMarkdown renders a batch report as Markdown string.
func RenderMarkdown(r *BatchReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Batch Report: %s\n\n", r.Operation))
	sb.WriteString(fmt.Sprintf("Batch ID: `%s`\n\n", r.BatchID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Transfers Attempted | %d |\n", r.Attempted))
	sb.WriteString(fmt.Sprintf("| Transfers Confirmed | %d |\n", r.Succeeded))
	sb.WriteString(fmt.Sprintf("| Transfers Failed | %d |\n", r.Failed))
	sb.WriteString(fmt.Sprintf("| Total Moved (SOL) | %s |\n", lamports.ToSOL(r.TotalMoved)))
	sb.WriteString(fmt.Sprintf("| First Attempt (ms) | %d |\n", r.FirstAttempt))
	sb.WriteString(fmt.Sprintf("| Last Attempt (ms) | %d |\n", r.LastAttempt))
	sb.WriteString("\n")

	// Transfers
	sb.WriteString("## Transfers\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Slot | Address | Amount (SOL) | Result |\n")
		sb.WriteString("|------|---------|--------------|--------|\n")
		for _, row := range r.Rows {
			result := row.Signature
			if !row.Confirmed() {
				result = "FAILED: " + row.Err
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				row.SlotIndex, row.Address, lamports.ToSOL(row.Lamports), result))
		}
	} else {
		sb.WriteString("No transfers recorded.\n")
	}
	sb.WriteString("\n")

	if r.Failed > 0 {
		sb.WriteString(fmt.Sprintf("**%d transfers failed.** Re-running the %s batch retries only the failed wallets.\n\n", r.Failed, r.Operation))
	} else {
		sb.WriteString("**All transfers confirmed.**\n\n")
	}

	return sb.String()
}
