package cli

import (
	"fmt"
	"strings"

	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

// maxSuggestions limits how many completion candidates are listed at once.
const maxSuggestions = 10

// CategorySelector resolves user input against the budget's category
// catalog, with substring completion in place of tab completion.
type CategorySelector struct {
	catalog *ynab.CategoryCatalog
}

// NewCategorySelector wraps a catalog.
func NewCategorySelector(catalog *ynab.CategoryCatalog) *CategorySelector {
	return &CategorySelector{catalog: catalog}
}

// Suggest returns display names containing the input, case-insensitively.
func (s *CategorySelector) Suggest(input string) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}
	var out []string
	for _, cat := range s.catalog.Categories {
		if strings.Contains(strings.ToLower(cat.Name), needle) {
			out = append(out, cat.Name)
			if len(out) >= maxSuggestions {
				break
			}
		}
	}
	return out
}

// Select prompts until the user names a category or backs out. Returns the
// category id and display name; ok is false when the user backed out with an
// empty answer or "b".
func (s *CategorySelector) Select(p *Prompter) (id, name string, ok bool) {
	for {
		input := p.Ask("Enter category name (partial name lists matches, empty or 'b' to go back): ")
		if input == "" || strings.EqualFold(input, "b") {
			return "", "", false
		}

		if catID, found := s.catalog.NameToID[strings.ToLower(input)]; found {
			display := s.catalog.IDToName[catID]
			fmt.Fprintf(p.out, "Selected: %s\n", display)
			return catID, display, true
		}

		matches := s.Suggest(input)
		switch len(matches) {
		case 0:
			fmt.Fprintf(p.out, "No category matches %q. Try again.\n", input)
		case 1:
			catID := s.catalog.NameToID[strings.ToLower(matches[0])]
			fmt.Fprintf(p.out, "Selected: %s\n", matches[0])
			return catID, matches[0], true
		default:
			fmt.Fprintln(p.out, "Matches:")
			for _, m := range matches {
				fmt.Fprintf(p.out, "  - %s\n", m)
			}
		}
	}
}
