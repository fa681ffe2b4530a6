// Package parser extracts structured orders from pasted Amazon order-history
// text.
//
// The input has no schema: it is whatever the browser put on the clipboard.
// Parsing is a line-oriented state machine rather than one big regex so the
// edge-case policy (which lines count as items, which amount is the total)
// stays auditable:
//
//	outside  -> header   on an "Order placed" marker
//	header   -> items    on an order-number anchor
//	items    -> header   on the next "Order placed" marker
//
// Parsing never fails. Blocks that cannot yield a complete order (missing
// date or total) are dropped and counted; blocks with no recognizable items
// are kept as item-less orders so they can still match by amount and date.
package parser

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
)

// MaxItemsPerOrder caps item extraction per order to keep memos manageable.
const MaxItemsPerOrder = 10

// Item is a single line item within an order. UnitPrice and Quantity are
// zero when the pasted text did not reveal them.
type Item struct {
	Name      string
	UnitPrice money.Milliunits
	Quantity  int
}

// Order is one fully parsed order block. Total is the absolute amount the
// vendor charged. Orders are immutable once returned from Parse.
type Order struct {
	ID    string
	Date  time.Time
	Total money.Milliunits
	Items []Item
}

// ItemNames returns the item names in extraction order.
func (o *Order) ItemNames() []string {
	names := make([]string, len(o.Items))
	for i, item := range o.Items {
		names[i] = item.Name
	}
	return names
}

// Result is the outcome of one parse pass. Dropped counts blocks that were
// anchored by an order number but could not produce a complete order.
type Result struct {
	Orders  []*Order
	Dropped int
}

// Parser turns pasted order-history text into orders.
type Parser struct {
	maxItems int
	logger   *slog.Logger
}

// New creates a parser. A nil logger disables diagnostics.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Parser{maxItems: MaxItemsPerOrder, logger: logger}
}

type state int

const (
	stateOutside state = iota
	stateHeader
	stateItems
)

var (
	orderIDPattern     = regexp.MustCompile(`\b(\d{3}-\d{7}-\d{7})\b`)
	datePattern        = regexp.MustCompile(`([A-Z][a-z]+ \d{1,2}, \d{4})`)
	amountPattern      = regexp.MustCompile(`\$[\d,]+(?:\.\d{1,2})?`)
	orderPlacedPattern = regexp.MustCompile(`(?i)\border placed\b`)
	totalLabelPattern  = regexp.MustCompile(`(?i)\btotal\b`)
	// Amounts on these lines are never the grand total.
	nonTotalLabelPattern = regexp.MustCompile(`(?i)\b(subtotal|shipping|tax|handling|promotion)\b`)
)

// pending accumulates header tokens seen before the order-number anchor.
type pending struct {
	date        time.Time
	total       money.Milliunits
	totalOK     bool // amount came from a Total-labeled line
	fallback    money.Milliunits
	fallbackOK  bool // unlabeled amount, used only if no labeled total
	expectTotal bool // previous line was a bare "Total" label
}

// Parse scans raw pasted text and returns every complete order it can find.
// Duplicate order numbers collapse to the first occurrence (order history is
// newest-first, and the first block carries the fullest item list).
func (p *Parser) Parse(text string) Result {
	var res Result
	if strings.TrimSpace(text) == "" {
		return res
	}

	var (
		st      = stateOutside
		hdr     pending
		current *Order
		items   *itemCollector
		seen    = map[string]bool{}
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Items = items.take()
		if seen[current.ID] {
			p.logger.Debug("duplicate order number, keeping first occurrence", "order_id", current.ID)
		} else {
			seen[current.ID] = true
			if len(current.Items) == 0 {
				p.logger.Info("order parsed without items, can still match by amount and date",
					"order_id", current.ID, "total", current.Total.Format())
			}
			res.Orders = append(res.Orders, current)
		}
		current = nil
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if orderPlacedPattern.MatchString(line) {
			// Boundary between blocks: close the open one, start a header.
			// The marker line may carry the date and total inline.
			flush()
			st = stateHeader
			hdr = pending{}
			p.collectHeader(&hdr, line)
			continue
		}

		if id := orderIDPattern.FindString(line); id != "" && st != stateItems {
			// Anchor. Open a block from the accumulated header, or drop it.
			order, ok := p.buildOrder(id, hdr)
			if !ok {
				res.Dropped++
			}
			current = order
			items = newItemCollector(p.maxItems)
			hdr = pending{}
			st = stateItems
			continue
		}

		switch st {
		case stateOutside, stateHeader:
			p.collectHeader(&hdr, line)
		case stateItems:
			items.consider(line)
		}
	}

	flush()
	return res
}

// buildOrder assembles an order from the header tokens. Returns ok=false
// when the block lacks a parseable total or date; such blocks are dropped,
// never fatal.
func (p *Parser) buildOrder(id string, hdr pending) (*Order, bool) {
	total := hdr.total
	if !hdr.totalOK {
		if !hdr.fallbackOK {
			p.logger.Warn("dropping order block without a parseable total", "order_id", id)
			return nil, false
		}
		total = hdr.fallback
	}
	if hdr.date.IsZero() {
		p.logger.Warn("dropping order block without a parseable date", "order_id", id)
		return nil, false
	}
	return &Order{ID: id, Date: hdr.date, Total: total.Abs()}, true
}

func (p *Parser) collectHeader(hdr *pending, line string) {
	if d, ok := findDate(line); ok {
		// Latest date wins: it is the one nearest the anchor.
		hdr.date = d
	}

	amt, hasAmt := findAmount(line)

	switch {
	case nonTotalLabelPattern.MatchString(line):
		hdr.expectTotal = false
	case totalLabelPattern.MatchString(line):
		if hasAmt {
			hdr.total = amt
			hdr.totalOK = true
			hdr.expectTotal = false
		} else {
			// "Total" on its own line; the amount follows.
			hdr.expectTotal = true
		}
	case hasAmt && hdr.expectTotal:
		hdr.total = amt
		hdr.totalOK = true
		hdr.expectTotal = false
	case hasAmt && !hdr.fallbackOK:
		hdr.fallback = amt
		hdr.fallbackOK = true
	}
}

func findDate(line string) (time.Time, bool) {
	m := datePattern.FindString(line)
	if m == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("January 2, 2006", m)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func findAmount(line string) (money.Milliunits, bool) {
	m := amountPattern.FindString(line)
	if m == "" {
		return 0, false
	}
	amt, err := money.Parse(m)
	if err != nil {
		return 0, false
	}
	return amt, true
}
