// Package reporting renders archived batch outcomes as Markdown and CSV.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"solana-wallet-fleet/internal/storage"
)

// Generator produces reports from the transfer archive.
type Generator struct {
	transferLog storage.TransferLogStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(transferLog storage.TransferLogStore) *Generator {
	return &Generator{
		transferLog: transferLog,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a report for one batch.
func (g *Generator) Generate(ctx context.Context, batchID string) (*BatchReport, error) {
	records, err := g.transferLog.GetByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no archived transfers for batch %s", batchID)
	}

	report := &BatchReport{
		GeneratedAt: g.now(),
		BatchID:     batchID,
		Operation:   records[0].Operation,
	}

	for _, rec := range records {
		row := TransferRow{
			SlotIndex: rec.SlotIndex,
			Address:   rec.Address,
			Lamports:  rec.Lamports,
			Signature: rec.Signature,
			Err:       rec.Err,
			Timestamp: rec.Timestamp,
		}
		report.Rows = append(report.Rows, row)

		report.Attempted++
		if row.Confirmed() {
			report.Succeeded++
			report.TotalMoved += row.Lamports
		} else {
			report.Failed++
		}

		if report.FirstAttempt == 0 || rec.Timestamp < report.FirstAttempt {
			report.FirstAttempt = rec.Timestamp
		}
		if rec.Timestamp > report.LastAttempt {
			report.LastAttempt = rec.Timestamp
		}
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].SlotIndex < report.Rows[j].SlotIndex
	})

	return report, nil
}
