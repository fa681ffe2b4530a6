// Package ynab is a minimal client for the YNAB v1 API, covering the calls
// the categorizer needs: listing categories, listing transactions and
// updating a single transaction.
//
// Transient failures (429 and 5xx) are retried with backoff via
// go-retryablehttp; everything else surfaces as a typed *APIError.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the production YNAB API endpoint.
const DefaultBaseURL = "https://api.ynab.com/v1"

// internalMasterGroup is YNAB's bookkeeping category group; it is never a
// valid categorization target.
const internalMasterGroup = "Internal Master Category"

// Client talks to the YNAB API for a single budget.
type Client struct {
	baseURL  string
	apiKey   string
	budgetID string
	http     *retryablehttp.Client
	logger   *slog.Logger
}

// NewClient creates a client. baseURL is normally DefaultBaseURL; tests
// point it at a local server. A nil logger disables diagnostics.
func NewClient(baseURL, apiKey, budgetID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 4 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		budgetID: budgetID,
		http:     rc,
		logger:   logger,
	}
}

// GetCategories fetches the budget's category groups and flattens them into
// a catalog of usable categories, skipping hidden and deleted entries and
// the internal master group.
func (c *Client) GetCategories(ctx context.Context) (*CategoryCatalog, error) {
	var resp categoryGroupsResponse
	if err := c.get(ctx, fmt.Sprintf("/budgets/%s/categories", c.budgetID), &resp); err != nil {
		return nil, err
	}

	catalog := &CategoryCatalog{
		NameToID: map[string]string{},
		IDToName: map[string]string{},
	}
	for _, group := range resp.CategoryGroups {
		if group.Hidden || group.Name == internalMasterGroup {
			continue
		}
		for _, cat := range group.Categories {
			if cat.Hidden || cat.Deleted {
				continue
			}
			display := group.Name + ": " + cat.Name
			catalog.Categories = append(catalog.Categories, Category{ID: cat.ID, Name: display})
			catalog.NameToID[strings.ToLower(display)] = cat.ID
			catalog.IDToName[cat.ID] = display
		}
	}
	return catalog, nil
}

// GetTransactions fetches the budget's transactions, scoped to one account
// when accountID is non-empty.
func (c *Client) GetTransactions(ctx context.Context, accountID string) ([]*Transaction, error) {
	path := fmt.Sprintf("/budgets/%s/transactions", c.budgetID)
	if accountID != "" {
		path = fmt.Sprintf("/budgets/%s/accounts/%s/transactions", c.budgetID, accountID)
	}

	var resp transactionsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// UpdateTransaction applies a single-transaction update.
func (c *Client) UpdateTransaction(ctx context.Context, transactionID string, update *TransactionUpdate) error {
	body, err := json.Marshal(map[string]*TransactionUpdate{"transaction": update})
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}

	url := fmt.Sprintf("%s/budgets/%s/transactions/%s", c.baseURL, c.budgetID, transactionID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("updating transaction %s: %w", transactionID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	c.logger.Debug("transaction updated", "transaction_id", transactionID)
	return nil
}

// get performs an authorized GET and decodes the "data" envelope into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", path, err)
	}
	return nil
}

// checkStatus converts a non-2xx response into an *APIError with the detail
// from the response body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	detail := strings.TrimSpace(string(body))

	var wireErr struct {
		Error struct {
			Detail string `json:"detail"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireErr) == nil && wireErr.Error.Detail != "" {
		detail = wireErr.Error.Detail
	}

	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}
