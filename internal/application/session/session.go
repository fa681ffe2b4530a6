// Package session holds the per-run orchestration logic around the core
// pipeline: filtering fetched transactions, building update payloads and
// previews, and accounting for what happened during a run.
//
// Everything here is a pure transformation; the interactive prompt loop and
// the YNAB client sit on either side of it.
package session

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// AmazonPayeeKeywords identify Amazon payees in free-text payee names.
var AmazonPayeeKeywords = []string{"amazon", "amzn", "amz"}

// FilterTransactions keeps the transactions worth processing: Amazon payee,
// uncategorized, not reconciled, non-zero, not a transfer, and not already
// split. Input order is preserved.
func FilterTransactions(transactions []*ynab.Transaction) []*ynab.Transaction {
	var out []*ynab.Transaction
	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		if !isAmazonPayee(tx.PayeeName) {
			continue
		}
		if tx.CategoryID != "" {
			continue
		}
		if tx.Cleared == "reconciled" {
			continue
		}
		if tx.Amount == 0 {
			continue
		}
		if tx.TransferAccountID != "" {
			continue
		}
		if len(tx.SubTransactions) > 0 {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func isAmazonPayee(payee string) bool {
	lower := strings.ToLower(payee)
	for _, kw := range AmazonPayeeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Result tallies one interactive run.
type Result struct {
	ProcessedCount int
	SkippedCount   int
	ErrorCount     int
	Errors         []error
}

// Run identifies a single categorization session for log correlation.
type Run struct {
	ID     string
	logger *slog.Logger
}

// NewRun starts a run with a fresh ID.
func NewRun(logger *slog.Logger) *Run {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	id := uuid.NewString()
	return &Run{ID: id, logger: logger.With("run_id", id)}
}

// Logger returns the run-scoped logger.
func (r *Run) Logger() *slog.Logger {
	return r.logger
}
