package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ynabtools/amazon-categorizer/internal/application/session"
	"github.com/ynabtools/amazon-categorizer/internal/domain/matcher"
	"github.com/ynabtools/amazon-categorizer/internal/domain/memo"
	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
	"github.com/ynabtools/amazon-categorizer/internal/domain/parser"
	"github.com/ynabtools/amazon-categorizer/internal/domain/splitter"
	"github.com/ynabtools/amazon-categorizer/internal/infrastructure/config"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// errQuit signals the user asked to stop the run.
var errQuit = errors.New("quit")

// App wires the interactive flow together.
type App struct {
	cfg      *config.Config
	client   *ynab.Client
	prompter *Prompter
	out      io.Writer
	gen      *memo.Generator
	matcher  *matcher.Matcher
	parser   *parser.Parser
	logger   *slog.Logger
}

// NewApp builds the interactive app from configuration.
func NewApp(cfg *config.Config, client *ynab.Client, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	return &App{
		cfg:      cfg,
		client:   client,
		prompter: NewPrompter(in, out),
		out:      out,
		gen:      memo.NewGenerator(cfg.Amazon.Domain, cfg.Memo.MaxLength),
		matcher: matcher.New(matcher.Config{
			AmountTolerance: money.Milliunits(cfg.Matching.AmountToleranceMilliunits),
			DaysBefore:      cfg.Matching.DaysBefore,
			DaysAfter:       cfg.Matching.DaysAfter,
		}),
		parser: parser.New(logger.With("system", "parser")),
		logger: logger,
	}
}

// Run executes one interactive categorization session.
func (a *App) Run(ctx context.Context) error {
	PrintConfigSummary(a.out, a.cfg)

	fmt.Fprintln(a.out, "Fetching categories...")
	catalog, err := a.client.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("fetching categories: %w", err)
	}
	if len(catalog.Categories) == 0 {
		return errors.New("no usable categories found in budget")
	}
	fmt.Fprintf(a.out, "\nFound %d usable categories.\n", len(catalog.Categories))
	selector := NewCategorySelector(catalog)

	orders := a.promptForOrders()

	fmt.Fprintln(a.out, "\nFetching transactions...")
	all, err := a.client.GetTransactions(ctx, a.cfg.YNAB.AccountID)
	if err != nil {
		return fmt.Errorf("fetching transactions: %w", err)
	}
	transactions := session.FilterTransactions(all)
	fmt.Fprintf(a.out, "\nFound %d uncategorized Amazon transaction(s) needing attention.\n", len(transactions))

	run := session.NewRun(a.logger)
	run.Logger().Info("session started",
		"transactions", len(transactions), "orders", len(orders))

	result := &session.Result{}
	consumed := make(map[string]bool)
	for i, tx := range transactions {
		err := a.processTransaction(ctx, tx, i, len(transactions), orders, consumed, selector, catalog, result)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, err)
		}
	}

	run.Logger().Info("session finished",
		"processed", result.ProcessedCount, "skipped", result.SkippedCount, "errors", result.ErrorCount)
	PrintRunSummary(a.out, result)
	return nil
}

// promptForOrders optionally collects pasted order-history text and parses
// it. Returns nil when the user skips.
func (a *App) promptForOrders() []*parser.Order {
	fmt.Fprintln(a.out, "\n--- Optional: Amazon Orders Data ---")
	fmt.Fprintln(a.out, "Paste Amazon orders page content to automatically match transactions with order details.")
	if !a.prompter.AskYesNo("Would you like to provide Amazon orders data?", true) {
		return nil
	}

	text := a.prompter.Multiline("Paste Amazon orders page content:")
	res := a.parser.Parse(text)
	if len(res.Orders) == 0 {
		fmt.Fprintln(a.out, "No valid orders found in provided data.")
		return nil
	}
	PrintParseSummary(a.out, res)
	return res.Orders
}

func (a *App) processTransaction(
	ctx context.Context,
	tx *ynab.Transaction,
	index, total int,
	orders []*parser.Order,
	consumed map[string]bool,
	selector *CategorySelector,
	catalog *ynab.CategoryCatalog,
	result *session.Result,
) error {
	if tx.Amount > 0 {
		fmt.Fprintf(a.out, "Found inflow transaction: %s %s\n", tx.PayeeName, tx.Amount.Format())
		if !a.prompter.AskYesNo("Process this inflow (refund/credit)?", false) {
			fmt.Fprintln(a.out, "Skipping inflow transaction.")
			result.SkippedCount++
			return nil
		}
	}

	fmt.Fprintf(a.out, "\n--- Processing Transaction %d/%d ---\n", index+1, total)
	fmt.Fprintf(a.out, "  ID:   %s\n", tx.ID)
	fmt.Fprintf(a.out, "  Date: %s\n", tx.Date.Format("2006-01-02"))
	fmt.Fprintf(a.out, "  Payee: %s\n", tx.PayeeName)
	fmt.Fprintf(a.out, "  Amount: %s\n", tx.Amount.Format())
	if tx.Memo != "" {
		fmt.Fprintf(a.out, "  Original Memo: %s\n", tx.Memo)
	}

	match := matcher.MatchResult{Transaction: tx, Confidence: matcher.ConfidenceNone}
	if len(orders) > 0 {
		match = a.matcher.FindMatch(tx, orders, consumed)
		switch {
		case match.Matched():
			PrintMatchedOrder(a.out, match, a.gen)
		case match.Confidence == matcher.ConfidenceAmbiguous:
			match = a.disambiguate(match, consumed)
			if match.Matched() {
				PrintMatchedOrder(a.out, match, a.gen)
			}
		default:
			fmt.Fprintln(a.out, "  ⚠ No matching order found in parsed Amazon data")
		}
	}

	for {
		action := a.prompter.AskDefault("Action? (c = categorize/split, s = skip, q = quit, default c): ", "c")
		if a.prompter.EOF() {
			// Piped input ran out or the terminal closed; stop instead of
			// replaying the default action forever.
			fmt.Fprintln(a.out, "Input closed. Quitting.")
			return errQuit
		}
		switch action {
		case "q":
			fmt.Fprintln(a.out, "Quitting.")
			return errQuit
		case "s":
			fmt.Fprintln(a.out, "Skipping.")
			result.SkippedCount++
			return nil
		case "c":
			done, err := a.handleCategorize(ctx, tx, match, selector, catalog)
			if err != nil {
				fmt.Fprintf(a.out, "Update failed: %v\n", err)
				a.logger.Error("transaction update failed", "transaction_id", tx.ID, "error", err)
				continue
			}
			if done {
				result.ProcessedCount++
				return nil
			}
		default:
			fmt.Fprintln(a.out, "Invalid action. Choose 'c', 's', or 'q'.")
		}
	}
}

// disambiguate asks the user to pick between equally likely orders. The
// chosen order is consumed like an automatic match would be.
func (a *App) disambiguate(match matcher.MatchResult, consumed map[string]bool) matcher.MatchResult {
	fmt.Fprintln(a.out, "\n  ⚖ Multiple orders match this transaction equally well:")
	for i, order := range match.Candidates {
		fmt.Fprintf(a.out, "    %d) Order %s: %s on %s\n",
			i+1, order.ID, order.Total.Format(), order.Date.Format("January 2, 2006"))
	}

	answer := a.prompter.Ask("Pick an order (number, empty to leave unmatched): ")
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(match.Candidates) {
		fmt.Fprintln(a.out, "Leaving transaction unmatched.")
		match.Confidence = matcher.ConfidenceNone
		return match
	}

	match.Order = match.Candidates[n-1]
	consumed[match.Order.ID] = true
	return match
}

func (a *App) handleCategorize(
	ctx context.Context,
	tx *ynab.Transaction,
	match matcher.MatchResult,
	selector *CategorySelector,
	catalog *ynab.CategoryCatalog,
) (bool, error) {
	var update *ynab.TransactionUpdate

	if match.Matched() && len(match.Order.Items) > 1 {
		fmt.Fprintln(a.out, "There is more than one item in this transaction.")
	}

	if a.prompter.AskYesNo("Split this transaction?", false) {
		lines := a.handleSplit(tx, match, selector)
		if lines == nil {
			fmt.Fprintln(a.out, "Splitting cancelled. No changes will be made.")
			return false, nil
		}
		update = session.BuildSplitPayload(tx, lines, match, tx.Memo, a.gen)
	} else {
		fmt.Fprintln(a.out, "Enter category name for the transaction:")
		categoryID, _, ok := selector.Select(a.prompter)
		if !ok {
			return false, nil
		}
		memoText := a.resolveMemo(match, tx.Memo)
		if memoText == "" {
			memoText = tx.Memo
		}
		update = session.BuildSinglePayload(tx, categoryID, memoText, a.gen)
	}

	previewText, err := session.RenderPreview(update, catalog.IDToName)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(a.out, "\n--- Preview Update ---")
	fmt.Fprintln(a.out, previewText)
	if !a.prompter.AskYesNo("Confirm update?", true) {
		fmt.Fprintln(a.out, "Update cancelled.")
		return false, nil
	}

	if err := a.client.UpdateTransaction(ctx, tx.ID, update); err != nil {
		return false, err
	}
	fmt.Fprintln(a.out, "Update successful.")
	return true, nil
}

// resolveMemo determines the memo for a single-category transaction: the
// matched order's memo when available, otherwise optional manual details.
func (a *App) resolveMemo(match matcher.MatchResult, originalMemo string) string {
	var suggested string
	if match.Matched() {
		fmt.Fprintln(a.out, "Using matched order data for memo generation...")
		suggested = a.gen.ForOrder(match.Order).Text
	} else if a.prompter.AskYesNo("No order match found. Enter item details manually?", false) {
		if details := a.promptItemDetails(); details != nil {
			suggested = a.gen.Enhanced(originalMemo, "", details).Text
		}
	}

	if suggested != "" && suggested != originalMemo {
		fmt.Fprintf(a.out, "\nSuggested memo:\n%q\n", suggested)
		if a.prompter.AskYesNo("Use suggested memo?", true) {
			return suggested
		}
	}
	return a.prompter.Multiline("Enter memo (optional):")
}

// handleSplit runs the split line loop. Returns nil when cancelled.
func (a *App) handleSplit(tx *ynab.Transaction, match matcher.MatchResult, selector *CategorySelector) []ynab.SubTransaction {
	fmt.Fprintln(a.out, "\n--- Splitting Transaction ---")
	plan := splitter.NewPlan(tx)
	splitCount := 1

	for plan.Remaining() != 0 {
		remaining := plan.Remaining()
		fmt.Fprintf(a.out, "\nSplit %d: Amount remaining: %s\n", splitCount, remaining.Abs().Format())

		if match.Matched() && len(match.Order.Items) > 0 {
			if splitCount <= len(match.Order.Items) {
				fmt.Fprintf(a.out, "Item %d: %s\n", splitCount, match.Order.Items[splitCount-1].Name)
			} else {
				fmt.Fprintln(a.out, "Additional split for remaining items")
			}
		}

		fmt.Fprintf(a.out, "Enter category name for split %d:\n", splitCount)
		categoryID, categoryName, ok := selector.Select(a.prompter)
		if !ok {
			fmt.Fprintln(a.out, "Cancelling split process.")
			return nil
		}

		amount := a.promptSplitAmount(categoryName, remaining)
		memoText := a.resolveSplitMemo(match, categoryName, splitCount)
		plan.Add(amount, categoryID, a.gen.Sanitize(memoText).Text)
		splitCount++
	}

	if !plan.Complete() {
		return nil
	}
	return plan.Lines()
}

// promptSplitAmount reads a positive amount for one split line, defaulting
// to the full remainder.
func (a *App) promptSplitAmount(categoryName string, remaining money.Milliunits) money.Milliunits {
	maxAmount := remaining.Abs()
	for {
		answer := a.prompter.AskDefault(
			fmt.Sprintf("Enter amount for %q (positive, max %s, default %s): ",
				categoryName, maxAmount.String(), maxAmount.String()),
			maxAmount.String(),
		)
		entered, err := money.Parse(answer)
		if err != nil || entered <= 0 {
			fmt.Fprintln(a.out, "Please enter a valid positive amount (e.g. 29.99).")
			continue
		}
		amount, err := splitter.ComputeAmount(entered, remaining)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		if amount == remaining {
			fmt.Fprintln(a.out, "Amount covers remaining balance.")
		}
		return amount
	}
}

// resolveSplitMemo determines the memo for one split line.
func (a *App) resolveSplitMemo(match matcher.MatchResult, categoryName string, splitCount int) string {
	var suggested string
	if match.Matched() {
		fmt.Fprintln(a.out, "Using matched order data for split memo...")
		suggested = a.gen.SplitLine(match.Order, splitCount).Text
	} else if a.prompter.AskYesNo("Enter item details for this split?", false) {
		if details := a.promptItemDetails(); details != nil {
			suggested = a.gen.Enhanced("", "", details).Text
		}
	}

	if suggested != "" {
		fmt.Fprintf(a.out, "Suggested memo for %q split:\n%q\n", categoryName, suggested)
		if a.prompter.AskYesNo("Use suggested memo?", true) {
			return suggested
		}
	}
	return a.prompter.Multiline(fmt.Sprintf("Enter memo for %q split (optional):", categoryName))
}

// promptItemDetails collects manual item details. Returns nil when nothing
// was entered.
func (a *App) promptItemDetails() *memo.ItemDetails {
	fmt.Fprintln(a.out, "\n--- Manual Item Details Entry ---")
	details := &memo.ItemDetails{}

	details.Title = a.prompter.Ask("Enter item title/description (optional): ")

	for {
		answer := a.prompter.Ask("Enter quantity (optional, press Enter to skip): ")
		if answer == "" {
			break
		}
		qty, err := strconv.Atoi(answer)
		if err != nil || qty <= 0 {
			fmt.Fprintln(a.out, "Quantity must be a positive number.")
			continue
		}
		details.Quantity = qty
		break
	}

	for {
		answer := a.prompter.Ask("Enter item price (optional, press Enter to skip): ")
		if answer == "" {
			break
		}
		price, err := money.Parse(answer)
		if err != nil || price < 0 {
			fmt.Fprintln(a.out, "Please enter a valid price (e.g. 29.99).")
			continue
		}
		details.Price = price
		details.HasPrice = true
		break
	}

	if details.Title == "" && details.Quantity == 0 && !details.HasPrice {
		return nil
	}
	return details
}
