package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynabtools/amazon-categorizer/internal/domain/matcher"
	"github.com/ynabtools/amazon-categorizer/internal/domain/memo"
	"github.com/ynabtools/amazon-categorizer/internal/domain/parser"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

func testTransaction() *ynab.Transaction {
	return &ynab.Transaction{
		ID:        "tx1",
		AccountID: "acct-1",
		Date:      ynab.Date{Time: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)},
		Amount:    -57570,
		PayeeID:   "p1",
		PayeeName: "Amazon.ca",
		Cleared:   "cleared",
		Memo:      "old memo",
	}
}

func TestBuildSinglePayload(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	tx := testTransaction()

	update := BuildSinglePayload(tx, "c1", "two cans of cat food", gen)

	assert.Equal(t, "tx1", update.ID)
	assert.Equal(t, "acct-1", update.AccountID)
	assert.Equal(t, tx.Amount, update.Amount)
	assert.Equal(t, "c1", update.CategoryID)
	assert.Equal(t, "two cans of cat food", update.Memo)
	assert.True(t, update.Approved)
	assert.Empty(t, update.SubTransactions)
}

func TestBuildSplitPayload_MatchedOrderSummarizesItems(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	tx := testTransaction()
	match := matcher.MatchResult{
		Transaction: tx,
		Order: &parser.Order{
			ID: "702-8237239-1234567",
			Items: []parser.Item{
				{Name: "Tuna Feast Canned Cat Food 24-pack"},
				{Name: "Salmon & Shrimp Feast Variety 24-pack"},
			},
		},
		Confidence: matcher.ConfidenceExact,
	}
	lines := []ynab.SubTransaction{
		{Amount: -30000, CategoryID: "c1", Memo: "first"},
		{Amount: -27570, CategoryID: "c2", Memo: "second"},
	}

	update := BuildSplitPayload(tx, lines, match, tx.Memo, gen)

	assert.Contains(t, update.Memo, "2 Items:")
	assert.Contains(t, update.Memo, "Tuna Feast")
	assert.Equal(t, lines, update.SubTransactions)
	assert.Empty(t, update.CategoryID)
	assert.True(t, update.Approved)
}

func TestBuildSplitPayload_NoMatchKeepsOriginalMemo(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	tx := testTransaction()
	lines := []ynab.SubTransaction{{Amount: -57570, CategoryID: "c1"}}

	update := BuildSplitPayload(tx, lines, matcher.MatchResult{Transaction: tx}, tx.Memo, gen)

	assert.Equal(t, "old memo", update.Memo)
}

func TestRenderPreview_ResolvesCategoryNames(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	tx := testTransaction()
	update := BuildSinglePayload(tx, "c1", "two cans of cat food", gen)
	idToName := map[string]string{"c1": "Everyday Expenses: Groceries"}

	out, err := RenderPreview(update, idToName)

	require.NoError(t, err)
	assert.Contains(t, out, `"category_name": "Everyday Expenses: Groceries"`)
	assert.Contains(t, out, `"amount": "-$57.57"`)
	assert.Contains(t, out, `"date": "2025-08-02"`)
	// The update itself stays as built.
	assert.Equal(t, "c1", update.CategoryID)
}

func TestRenderPreview_UnknownCategory(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	update := BuildSinglePayload(testTransaction(), "mystery", "", gen)

	out, err := RenderPreview(update, map[string]string{})

	require.NoError(t, err)
	assert.Contains(t, out, "Unknown Category")
}

func TestRenderPreview_SplitLines(t *testing.T) {
	gen := memo.NewGenerator("", 0)
	tx := testTransaction()
	lines := []ynab.SubTransaction{
		{Amount: -30000, CategoryID: "c1", Memo: "first"},
		{Amount: -27570, CategoryID: "c2", Memo: "second"},
	}
	update := BuildSplitPayload(tx, lines, matcher.MatchResult{}, "memo", gen)

	out, err := RenderPreview(update, map[string]string{"c1": "A", "c2": "B"})

	require.NoError(t, err)
	assert.Contains(t, out, `"amount": "-$30.00"`)
	assert.Contains(t, out, `"category_name": "A"`)
	assert.Contains(t, out, `"category_name": "B"`)
}
