// Package splitter plans split transactions in milliunits.
//
// A plan starts from the parent transaction's amount and consumes it line by
// line. Users enter positive amounts; the plan converts them to the parent's
// sign convention (negative for outflows, positive for refunds) and keeps
// the lines summing exactly to the parent amount, folding sub-cent
// remainders into the last line.
package splitter

import (
	"errors"
	"fmt"

	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// ErrExceedsRemaining is returned when a split amount is larger than what is
// left of the parent transaction.
var ErrExceedsRemaining = errors.New("amount exceeds remaining balance")

// ComputeAmount converts a positive user-entered amount into signed
// milliunits matching the parent's direction. Amounts within one milliunit
// of the remainder snap to it exactly so rounding noise cannot leave a plan
// unfinishable.
func ComputeAmount(entered, remaining money.Milliunits) (money.Milliunits, error) {
	if entered <= 0 {
		return 0, fmt.Errorf("split amount must be positive, got %s", entered)
	}
	if entered > remaining.Abs()+1 {
		return 0, fmt.Errorf("%w: max %s", ErrExceedsRemaining, remaining.Abs())
	}

	amount := entered.Abs()
	if remaining < 0 {
		amount = -amount
	}
	if (amount.Abs() - remaining.Abs()).Abs() <= 1 {
		amount = remaining
	}
	return amount, nil
}

// Plan accumulates split lines against a parent transaction.
type Plan struct {
	parent    money.Milliunits
	remaining money.Milliunits
	lines     []ynab.SubTransaction
}

// NewPlan starts a split plan for the transaction.
func NewPlan(tx *ynab.Transaction) *Plan {
	return &Plan{parent: tx.Amount, remaining: tx.Amount}
}

// Remaining is the signed amount not yet covered by a line.
func (p *Plan) Remaining() money.Milliunits {
	return p.remaining
}

// Add appends a line with an already signed amount (from ComputeAmount).
// A negligible remainder (one milliunit or less) after the add is folded
// into the line just added.
func (p *Plan) Add(amount money.Milliunits, categoryID, memoText string) {
	p.lines = append(p.lines, ynab.SubTransaction{
		Amount:     amount,
		CategoryID: categoryID,
		Memo:       memoText,
	})
	p.remaining -= amount

	if p.remaining != 0 && p.remaining.Abs() <= 1 {
		p.lines[len(p.lines)-1].Amount += p.remaining
		p.remaining = 0
	}
}

// Complete reports whether the lines cover the parent amount exactly.
func (p *Plan) Complete() bool {
	return p.remaining == 0 && len(p.lines) > 0
}

// Lines returns the accumulated split lines.
func (p *Plan) Lines() []ynab.SubTransaction {
	return p.lines
}
