package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ynabtools/amazon-categorizer/internal/application/session"
	"github.com/ynabtools/amazon-categorizer/internal/domain/matcher"
	"github.com/ynabtools/amazon-categorizer/internal/domain/memo"
	"github.com/ynabtools/amazon-categorizer/internal/domain/parser"
	"github.com/ynabtools/amazon-categorizer/internal/infrastructure/config"
)

// PrintConfigSummary prints the loaded configuration without exposing
// secrets.
func PrintConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "✓ Configuration loaded successfully")
	fmt.Fprintln(w, "✓ API Key: configured")
	if len(cfg.YNAB.BudgetID) >= 4 {
		fmt.Fprintf(w, "✓ Budget ID: ...%s\n", cfg.YNAB.BudgetID[len(cfg.YNAB.BudgetID)-4:])
	} else {
		fmt.Fprintln(w, "✓ Budget ID: configured")
	}
	if cfg.YNAB.AccountID != "" {
		fmt.Fprintln(w, "✓ Account ID: configured")
	} else {
		fmt.Fprintln(w, "✓ All accounts")
	}
}

// PrintParseSummary reports what a parse pass extracted.
func PrintParseSummary(w io.Writer, res parser.Result) {
	fmt.Fprintf(w, "\n✓ Parsed %d order(s) from pasted data", len(res.Orders))
	if res.Dropped > 0 {
		fmt.Fprintf(w, " (%d incomplete block(s) dropped)", res.Dropped)
	}
	fmt.Fprintln(w)
	for i, order := range res.Orders {
		if i >= 3 {
			fmt.Fprintf(w, "  ... and %d more order(s)\n", len(res.Orders)-3)
			break
		}
		fmt.Fprintf(w, "  - Order %s: %s (%d items)\n", order.ID, order.Total.Format(), len(order.Items))
	}
}

// PrintMatchedOrder shows the matched order's details before categorizing.
func PrintMatchedOrder(w io.Writer, result matcher.MatchResult, gen *memo.Generator) {
	order := result.Order
	fmt.Fprintln(w, "\n  🎯 MATCHED ORDER FOUND:")
	fmt.Fprintf(w, "     Order ID: %s\n", order.ID)
	fmt.Fprintf(w, "     Total: %s\n", order.Total.Format())
	fmt.Fprintf(w, "     Date: %s\n", order.Date.Format("January 2, 2006"))
	fmt.Fprintf(w, "     Confidence: %s\n", result.Confidence)
	fmt.Fprintf(w, "     Order Link: %s\n", gen.OrderLink(order.ID))
	if len(order.Items) > 0 {
		fmt.Fprintln(w, "     Items:")
		for _, item := range order.Items {
			fmt.Fprintf(w, "       - %s\n", item.Name)
		}
	}
	fmt.Fprintln(w)
}

// PrintRunSummary prints the session tally.
func PrintRunSummary(w io.Writer, result *session.Result) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Processed=%d Skipped=%d Errors=%d\n",
		result.ProcessedCount, result.SkippedCount, result.ErrorCount)
	for _, err := range result.Errors {
		fmt.Fprintf(w, "  error: %v\n", err)
	}
}
