package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynabtools/amazon-categorizer/internal/ynab"
)

func testCatalog() *ynab.CategoryCatalog {
	catalog := &ynab.CategoryCatalog{
		NameToID: map[string]string{},
		IDToName: map[string]string{},
	}
	for _, c := range []ynab.Category{
		{ID: "c1", Name: "Everyday Expenses: Groceries"},
		{ID: "c2", Name: "Everyday Expenses: Household Goods"},
		{ID: "c3", Name: "Fun Money: Hobbies"},
	} {
		catalog.Categories = append(catalog.Categories, c)
		catalog.NameToID[strings.ToLower(c.Name)] = c.ID
		catalog.IDToName[c.ID] = c.Name
	}
	return catalog
}

func TestSuggest(t *testing.T) {
	s := NewCategorySelector(testCatalog())

	assert.Equal(t, []string{"Everyday Expenses: Groceries"}, s.Suggest("grocer"))
	assert.Len(t, s.Suggest("everyday"), 2)
	assert.Empty(t, s.Suggest("nonexistent"))
	assert.Empty(t, s.Suggest(""))
	assert.Equal(t, []string{"Fun Money: Hobbies"}, s.Suggest("HOBB"))
}

func TestSelect_ExactName(t *testing.T) {
	s := NewCategorySelector(testCatalog())
	p, out := newTestPrompter("everyday expenses: groceries\n")

	id, name, ok := s.Select(p)

	require.True(t, ok)
	assert.Equal(t, "c1", id)
	assert.Equal(t, "Everyday Expenses: Groceries", name)
	assert.Contains(t, out.String(), "Selected:")
}

func TestSelect_SingleSuggestionAutoSelects(t *testing.T) {
	s := NewCategorySelector(testCatalog())
	p, _ := newTestPrompter("grocer\n")

	id, name, ok := s.Select(p)

	require.True(t, ok)
	assert.Equal(t, "c1", id)
	assert.Equal(t, "Everyday Expenses: Groceries", name)
}

func TestSelect_MultipleMatchesListedThenChosen(t *testing.T) {
	s := NewCategorySelector(testCatalog())
	p, out := newTestPrompter("everyday\nhousehold\n")

	id, _, ok := s.Select(p)

	require.True(t, ok)
	assert.Equal(t, "c2", id)
	assert.Contains(t, out.String(), "Matches:")
	assert.Contains(t, out.String(), "Everyday Expenses: Groceries")
}

func TestSelect_BackOut(t *testing.T) {
	s := NewCategorySelector(testCatalog())

	for _, input := range []string{"\n", "b\n", "B\n"} {
		p, _ := newTestPrompter(input)
		_, _, ok := s.Select(p)
		assert.False(t, ok)
	}
}

func TestSelect_NoMatchRetries(t *testing.T) {
	s := NewCategorySelector(testCatalog())
	p, out := newTestPrompter("zzz\ngrocer\n")

	id, _, ok := s.Select(p)

	require.True(t, ok)
	assert.Equal(t, "c1", id)
	assert.Contains(t, out.String(), "No category matches")
}
