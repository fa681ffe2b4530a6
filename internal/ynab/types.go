package ynab

import (
	"fmt"
	"strings"
	"time"

	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
)

// Date is a calendar date in the YNAB wire format ("2006-01-02").
type Date struct {
	time.Time
}

// ParseDate parses a YNAB wire date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02" and RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Transaction is a YNAB transaction. Amounts are milliunits with outflows
// negative. The categorizer only ever reads these; updates go through
// TransactionUpdate.
type Transaction struct {
	ID                string           `json:"id"`
	AccountID         string           `json:"account_id"`
	Date              Date             `json:"date"`
	Amount            money.Milliunits `json:"amount"`
	PayeeID           string           `json:"payee_id,omitempty"`
	PayeeName         string           `json:"payee_name,omitempty"`
	CategoryID        string           `json:"category_id,omitempty"`
	Memo              string           `json:"memo,omitempty"`
	Cleared           string           `json:"cleared,omitempty"`
	Approved          bool             `json:"approved"`
	FlagColor         string           `json:"flag_color,omitempty"`
	ImportID          string           `json:"import_id,omitempty"`
	TransferAccountID string           `json:"transfer_account_id,omitempty"`
	SubTransactions   []SubTransaction `json:"subtransactions,omitempty"`
}

// SubTransaction is one split line of a split transaction.
type SubTransaction struct {
	Amount     money.Milliunits `json:"amount"`
	CategoryID string           `json:"category_id,omitempty"`
	Memo       string           `json:"memo,omitempty"`
}

// TransactionUpdate is the payload for PUT /transactions/{id}. Field set
// mirrors what the YNAB API accepts on update.
type TransactionUpdate struct {
	ID              string           `json:"id"`
	AccountID       string           `json:"account_id"`
	Date            Date             `json:"date"`
	Amount          money.Milliunits `json:"amount"`
	PayeeID         string           `json:"payee_id,omitempty"`
	PayeeName       string           `json:"payee_name,omitempty"`
	CategoryID      string           `json:"category_id,omitempty"`
	Memo            string           `json:"memo,omitempty"`
	Cleared         string           `json:"cleared,omitempty"`
	Approved        bool             `json:"approved"`
	FlagColor       string           `json:"flag_color,omitempty"`
	ImportID        string           `json:"import_id,omitempty"`
	SubTransactions []SubTransaction `json:"subtransactions,omitempty"`
}

// Category is a budget category flattened to a display name
// ("Group: Category").
type Category struct {
	ID   string
	Name string
}

// CategoryCatalog holds the usable categories of a budget with lookup maps
// for prompt completion and preview rendering.
type CategoryCatalog struct {
	Categories []Category
	NameToID   map[string]string // lowercased display name -> id
	IDToName   map[string]string
}

// wire shapes for /budgets/{id}/categories

type categoryGroupsResponse struct {
	CategoryGroups []categoryGroup `json:"category_groups"`
}

type categoryGroup struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Hidden     bool           `json:"hidden"`
	Categories []wireCategory `json:"categories"`
}

type wireCategory struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

type transactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
