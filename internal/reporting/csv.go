package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders transfer rows as CSV string.
func RenderCSV(rows []TransferRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("slot_index,address,lamports,signature,error,timestamp_ms\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%d,%s,%s,%d\n",
			r.SlotIndex,
			r.Address,
			r.Lamports,
			r.Signature,
			strings.ReplaceAll(r.Err, ",", ";"),
			r.Timestamp,
		))
	}

	return sb.String()
}
