package parser

import (
	"regexp"
	"strings"
)

// minItemLength filters out fragments; real product titles are longer.
const minItemLength = 15

// Lines that are order-page chrome rather than products. Keep this list in
// sync with what the Amazon order history page actually renders.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(Buy it again|Track package|View|Return|Write|Get|Share|Leave|Ask)`),
	regexp.MustCompile(`(?i)^(Delivered|Arriving|Auto-delivered|Package was)`),
	regexp.MustCompile(`(?i)^(Return items:|Return or replace)`),
	regexp.MustCompile(`(?i)^\d+\.?\d* out of \d+ stars`),
	regexp.MustCompile(`(?i)^FREE|^Today by|^Get it|^List:|^Was:|^Limited-time deal`),
	regexp.MustCompile(`^\$\d+\.\d+|\(\$\d+\.\d+`),
	regexp.MustCompile(`(?i)^\d+ sustainability features?$`),
	regexp.MustCompile(`^[A-Z\s]+$`), // all-caps lines are never product names
	regexp.MustCompile(`(?i)^(Ship to|Order #|View order|Invoice)`),
}

// Product-title signals: packaging/size units, or mixed-case words.
var (
	unitKeywords     = []string{"pack", "count", "size", "oz", "ml", "lbs", "kg", "inch", "cm"}
	mixedCasePattern = regexp.MustCompile(`[A-Z][a-z].*[A-Z]`)
	bulletPrefix     = regexp.MustCompile(`^[-•]\s*`)
	innerWhitespace  = regexp.MustCompile(`\s+`)
)

// Navigation words that disqualify a line even when it looks product-shaped.
var navWords = []string{"account", "orders", "cart", "search", "hello", "browse", "prime", "shipping"}

// itemCollector gathers candidate item lines for one order block,
// deduplicating and capping at max.
type itemCollector struct {
	max   int
	seen  map[string]bool
	items []Item
}

func newItemCollector(max int) *itemCollector {
	return &itemCollector{max: max, seen: map[string]bool{}}
}

// consider classifies a line and records it when it looks like a product.
// Unicode names (emoji, non-Latin scripts) pass through verbatim.
func (c *itemCollector) consider(line string) {
	if len(c.items) >= c.max {
		return
	}
	if len(line) < minItemLength {
		return
	}
	for _, p := range skipPatterns {
		if p.MatchString(line) {
			return
		}
	}
	if !looksLikeProduct(line) {
		return
	}

	cleaned := innerWhitespace.ReplaceAllString(line, " ")
	cleaned = bulletPrefix.ReplaceAllString(cleaned, "")
	if len(cleaned) < minItemLength {
		return
	}

	lower := strings.ToLower(cleaned)
	for _, w := range navWords {
		if strings.Contains(lower, w) {
			return
		}
	}

	if c.seen[cleaned] {
		return
	}
	c.seen[cleaned] = true
	c.items = append(c.items, Item{Name: cleaned})
}

func (c *itemCollector) take() []Item {
	return c.items
}

func looksLikeProduct(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range unitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if mixedCasePattern.MatchString(line) {
		return true
	}
	return len(strings.Fields(line)) >= 5
}
