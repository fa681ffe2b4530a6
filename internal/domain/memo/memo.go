// Package memo builds YNAB memo text for matched orders.
//
// Memos embed the vendor order link, which is the only uniquely actionable
// piece of the memo. The length policy follows from that: when a memo has to
// be cut down to the field limit, the item-name portion is truncated and the
// link is always preserved byte for byte.
package memo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
	"github.com/ynabtools/amazon-categorizer/internal/domain/parser"
)

// DefaultMaxLength is the YNAB memo field limit.
const DefaultMaxLength = 200

// DefaultDomain is the Amazon storefront used for order links.
const DefaultDomain = "amazon.ca"

const truncationMarker = "..."

// orderLinkPattern recognizes an order-details link at the end of a memo.
var orderLinkPattern = regexp.MustCompile(`https://www\.[a-zA-Z0-9.-]+/gp/your-account/order-details\?ie=UTF8&orderID=\S+$`)

// Result is generated memo text. Truncated reports that the input had to be
// shortened to fit the field limit; LinkOnly reports the pathological case
// where nothing but the order link survived.
type Result struct {
	Text      string
	Truncated bool
	LinkOnly  bool
}

// ItemDetails is manually entered item information for transactions without
// a matched order.
type ItemDetails struct {
	Title    string
	Quantity int
	Price    money.Milliunits
	HasPrice bool
}

// Generator builds memos for a single Amazon storefront and field limit.
type Generator struct {
	domain    string
	maxLength int
}

// NewGenerator creates a generator. Empty domain and non-positive maxLength
// fall back to the defaults.
func NewGenerator(domain string, maxLength int) *Generator {
	if domain == "" {
		domain = DefaultDomain
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Generator{domain: domain, maxLength: maxLength}
}

// OrderLink returns the order-details URL for an order ID, or "" when the
// ID is empty.
func (g *Generator) OrderLink(orderID string) string {
	if orderID == "" {
		return ""
	}
	return fmt.Sprintf("https://www.%s/gp/your-account/order-details?ie=UTF8&orderID=%s", g.domain, orderID)
}

// ForOrder builds the unsplit memo for a matched order: item names joined
// with ", " and the order link on its own line.
func (g *Generator) ForOrder(order *parser.Order) Result {
	names := order.ItemNames()
	text := strings.Join(names, ", ")
	if text == "" {
		text = "Amazon Purchase"
	}
	if link := g.OrderLink(order.ID); link != "" {
		text += "\n" + link
	}
	return g.Sanitize(text)
}

// SplitSummary builds the parent memo for a split transaction: a count line
// followed by a bulleted item list, with the order link appended only when
// it fits without displacing any item name.
func (g *Generator) SplitSummary(order *parser.Order) Result {
	names := order.ItemNames()
	if len(names) == 0 {
		return Result{}
	}

	var text string
	if len(names) == 1 {
		text = names[0]
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "%d Items:", len(names))
		for _, name := range names {
			b.WriteString("\n- ")
			b.WriteString(name)
		}
		text = b.String()
	}

	if link := g.OrderLink(order.ID); link != "" {
		withLink := text + "\n" + link
		if len([]rune(withLink)) <= g.maxLength {
			return g.Sanitize(withLink)
		}
	}
	return g.Sanitize(text)
}

// SplitLine builds the memo for the n-th split line (1-based). Lines beyond
// the order's item list get a generic placeholder.
func (g *Generator) SplitLine(order *parser.Order, n int) Result {
	names := order.ItemNames()
	if n < 1 || n > len(names) {
		return g.Sanitize("Additional item")
	}
	text := names[n-1]
	if link := g.OrderLink(order.ID); link != "" {
		text += "\n" + link
	}
	return g.Sanitize(text)
}

// Enhanced builds a memo from manually entered item details, appending the
// order link when an order ID is known. With no details it falls back to the
// original memo.
func (g *Generator) Enhanced(originalMemo, orderID string, details *ItemDetails) Result {
	text := originalMemo
	if details != nil {
		var parts []string
		if details.Title != "" {
			parts = append(parts, details.Title)
		}
		if details.Quantity > 1 {
			parts = append(parts, fmt.Sprintf("x%d", details.Quantity))
		}
		if details.HasPrice {
			parts = append(parts, details.Price.Format())
		}
		if len(parts) > 0 {
			text = strings.Join(parts, " ")
		}
	}
	if link := g.OrderLink(orderID); link != "" {
		if text != "" {
			text += "\n\n"
		}
		text += "Amazon Order: " + link
	}
	return g.Sanitize(text)
}

// Sanitize strips control characters (newlines survive) and enforces the
// field limit. A trailing order link is preserved unchanged across
// truncation; if even the link alone exceeds the limit, the link is returned
// intact and the result is flagged LinkOnly.
func (g *Generator) Sanitize(text string) Result {
	cleaned := stripControl(text)
	runes := []rune(cleaned)
	if len(runes) <= g.maxLength {
		return Result{Text: cleaned}
	}

	link := orderLinkPattern.FindString(cleaned)
	if link == "" {
		return Result{
			Text:      string(runes[:g.maxLength-len(truncationMarker)]) + truncationMarker,
			Truncated: true,
		}
	}

	// Room left for item context once the link, its separating newline and
	// the truncation marker are accounted for.
	avail := g.maxLength - len([]rune(link)) - 1 - len(truncationMarker)
	if avail <= 0 {
		return Result{Text: link, Truncated: true, LinkOnly: true}
	}

	prefix := strings.TrimRight(string(runes[:avail]), " \n")
	return Result{
		Text:      prefix + truncationMarker + "\n" + link,
		Truncated: true,
	}
}

// stripControl removes control characters except newline.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
