package session

import (
	"encoding/json"
	"fmt"

	"github.com/ynabtools/amazon-categorizer/internal/domain/matcher"
	"github.com/ynabtools/amazon-categorizer/internal/domain/memo"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// BuildSinglePayload builds the update for a single-category transaction.
// The memo is sanitized through the generator so it can never exceed the
// field limit.
func BuildSinglePayload(tx *ynab.Transaction, categoryID, memoText string, gen *memo.Generator) *ynab.TransactionUpdate {
	return &ynab.TransactionUpdate{
		ID:         tx.ID,
		AccountID:  tx.AccountID,
		Date:       tx.Date,
		Amount:     tx.Amount,
		PayeeID:    tx.PayeeID,
		PayeeName:  tx.PayeeName,
		CategoryID: categoryID,
		Memo:       gen.Sanitize(memoText).Text,
		Cleared:    tx.Cleared,
		Approved:   true,
		FlagColor:  tx.FlagColor,
		ImportID:   tx.ImportID,
	}
}

// BuildSplitPayload builds the update for a split transaction. The parent
// memo summarizes the matched order's items when one is available, else the
// original memo survives.
func BuildSplitPayload(tx *ynab.Transaction, lines []ynab.SubTransaction, match matcher.MatchResult, originalMemo string, gen *memo.Generator) *ynab.TransactionUpdate {
	parentMemo := gen.Sanitize(originalMemo).Text
	if match.Matched() && len(match.Order.Items) > 0 {
		parentMemo = gen.SplitSummary(match.Order).Text
	}

	return &ynab.TransactionUpdate{
		ID:              tx.ID,
		AccountID:       tx.AccountID,
		Date:            tx.Date,
		Amount:          tx.Amount,
		PayeeID:         tx.PayeeID,
		PayeeName:       tx.PayeeName,
		Memo:            parentMemo,
		Cleared:         tx.Cleared,
		Approved:        true,
		FlagColor:       tx.FlagColor,
		ImportID:        tx.ImportID,
		SubTransactions: lines,
	}
}

// preview mirrors TransactionUpdate with display names injected so the user
// can read what will change before confirming.
type preview struct {
	ID              string           `json:"id"`
	Date            ynab.Date        `json:"date"`
	Amount          string           `json:"amount"`
	PayeeName       string           `json:"payee_name,omitempty"`
	CategoryID      string           `json:"category_id,omitempty"`
	CategoryName    string           `json:"category_name,omitempty"`
	Memo            string           `json:"memo,omitempty"`
	Approved        bool             `json:"approved"`
	SubTransactions []previewSubLine `json:"subtransactions,omitempty"`
}

type previewSubLine struct {
	Amount       string `json:"amount"`
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Memo         string `json:"memo,omitempty"`
}

// RenderPreview renders an update as indented JSON with category names
// resolved through the catalog. The update itself is never mutated.
func RenderPreview(update *ynab.TransactionUpdate, idToName map[string]string) (string, error) {
	p := preview{
		ID:           update.ID,
		Date:         update.Date,
		Amount:       update.Amount.Format(),
		PayeeName:    update.PayeeName,
		CategoryID:   update.CategoryID,
		CategoryName: lookupName(idToName, update.CategoryID),
		Memo:         update.Memo,
		Approved:     update.Approved,
	}
	for _, line := range update.SubTransactions {
		p.SubTransactions = append(p.SubTransactions, previewSubLine{
			Amount:       line.Amount.Format(),
			CategoryID:   line.CategoryID,
			CategoryName: lookupName(idToName, line.CategoryID),
			Memo:         line.Memo,
		})
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return string(out), nil
}

func lookupName(idToName map[string]string, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := idToName[id]; ok {
		return name
	}
	return "Unknown Category"
}
