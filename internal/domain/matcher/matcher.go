// Package matcher pairs parsed orders with YNAB transactions.
//
// Amount is the primary signal: vendors charge to the cent, so an order is a
// candidate only when its total equals the transaction amount within a small
// tolerance. Date is a refinement, not a filter of first resort: the posting
// date on a budgeting service lags the order date by an unpredictable few
// days, so the window is asymmetric (an order may precede the transaction by
// more days than it may follow it).
//
// Matching one batch is a single deterministic pass: transactions are
// processed in the order supplied, and an order consumed by one transaction
// is never offered to a later one in the same run.
package matcher

import (
	"time"

	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
	"github.com/ynabtools/amazon-categorizer/internal/domain/parser"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// Config holds matching tolerances.
type Config struct {
	// AmountTolerance is the maximum difference between an order total and
	// the absolute transaction amount for the two to be considered equal.
	AmountTolerance money.Milliunits
	// DaysBefore is how many days the order date may precede the
	// transaction's posted date.
	DaysBefore int
	// DaysAfter is how many days the order date may follow the posted date.
	DaysAfter int
}

// DefaultConfig returns the standard tolerances: one cent, and a 7-day/3-day
// asymmetric date window.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: money.PerCent,
		DaysBefore:      7,
		DaysAfter:       3,
	}
}

// Confidence explains how a match result was decided.
type Confidence string

const (
	// ConfidenceNone means no order survived the amount and date filters.
	ConfidenceNone Confidence = "no-match"
	// ConfidenceExact means exactly one order matched on amount within the
	// date window.
	ConfidenceExact Confidence = "exact-amount+date-window"
	// ConfidenceClosestDate means several orders matched on amount and the
	// one with the closest date was chosen.
	ConfidenceClosestDate Confidence = "amount+closest-date"
	// ConfidenceAmbiguous means several orders matched equally well; no
	// automatic assignment was made and the caller must disambiguate.
	ConfidenceAmbiguous Confidence = "ambiguous-multiple"
)

// MatchResult is the outcome for a single transaction. Order is nil unless
// Confidence is ConfidenceExact or ConfidenceClosestDate. For ambiguous
// results Candidates carries the equally likely orders so the caller can ask
// the user.
type MatchResult struct {
	Transaction *ynab.Transaction
	Order       *parser.Order
	Confidence  Confidence
	Candidates  []*parser.Order
	DateDiff    int // days between order and transaction date, when matched
}

// Matched reports whether an order was assigned.
func (r *MatchResult) Matched() bool {
	return r.Order != nil
}

// Matcher matches order batches against transaction batches.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Match produces one result per transaction, in the order supplied. Orders
// assigned to earlier transactions are consumed and not offered again within
// the run. Match never mutates its inputs.
func (m *Matcher) Match(orders []*parser.Order, transactions []*ynab.Transaction) []MatchResult {
	consumed := make(map[string]bool, len(orders))
	results := make([]MatchResult, 0, len(transactions))
	for _, tx := range transactions {
		results = append(results, m.matchOne(tx, orders, consumed))
	}
	return results
}

// FindMatch matches a single transaction against the order pool, honoring
// and updating the consumed set. Exposed for the interactive flow, which
// resolves one transaction at a time.
func (m *Matcher) FindMatch(tx *ynab.Transaction, orders []*parser.Order, consumed map[string]bool) MatchResult {
	return m.matchOne(tx, orders, consumed)
}

type candidate struct {
	order *parser.Order
	lead  int // days the order precedes the transaction; negative if it follows
}

func (m *Matcher) matchOne(tx *ynab.Transaction, orders []*parser.Order, consumed map[string]bool) MatchResult {
	result := MatchResult{Transaction: tx, Confidence: ConfidenceNone}
	txAmount := tx.Amount.Abs()
	txDate := tx.Date.Time

	var candidates []candidate
	for _, order := range orders {
		if consumed[order.ID] {
			continue
		}
		diff := order.Total - txAmount
		if diff.Abs() > m.config.AmountTolerance {
			continue
		}
		lead := daysBetween(order.Date, txDate)
		if lead > m.config.DaysBefore || -lead > m.config.DaysAfter {
			continue
		}
		candidates = append(candidates, candidate{order: order, lead: lead})
	}

	switch len(candidates) {
	case 0:
		return result
	case 1:
		result.Order = candidates[0].order
		result.Confidence = ConfidenceExact
		result.DateDiff = abs(candidates[0].lead)
		consumed[result.Order.ID] = true
		return result
	}

	// Several amount matches inside the window: prefer the closest date.
	best := candidates[0]
	tied := []candidate{best}
	for _, c := range candidates[1:] {
		switch {
		case abs(c.lead) < abs(best.lead):
			best = c
			tied = []candidate{c}
		case abs(c.lead) == abs(best.lead):
			tied = append(tied, c)
		}
	}

	if len(tied) > 1 {
		result.Confidence = ConfidenceAmbiguous
		for _, c := range tied {
			result.Candidates = append(result.Candidates, c.order)
		}
		return result
	}

	result.Order = best.order
	result.Confidence = ConfidenceClosestDate
	result.DateDiff = abs(best.lead)
	consumed[result.Order.ID] = true
	return result
}

// daysBetween returns whole days from a to b, ignoring the time of day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
