package ynab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynabtools/amazon-categorizer/internal/domain/money"
)

func TestGetCategories_FlattensGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/budget-1/categories", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"category_groups": [
			{"id": "g1", "name": "Everyday Expenses", "hidden": false, "categories": [
				{"id": "c1", "name": "Groceries", "hidden": false, "deleted": false},
				{"id": "c2", "name": "Old Thing", "hidden": true, "deleted": false},
				{"id": "c3", "name": "Gone Thing", "hidden": false, "deleted": true}
			]},
			{"id": "g2", "name": "Internal Master Category", "hidden": false, "categories": [
				{"id": "c4", "name": "Inflow: Ready to Assign", "hidden": false, "deleted": false}
			]},
			{"id": "g3", "name": "Hidden Group", "hidden": true, "categories": [
				{"id": "c5", "name": "Invisible", "hidden": false, "deleted": false}
			]}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "budget-1", nil)
	catalog, err := client.GetCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, catalog.Categories, 1)
	assert.Equal(t, "Everyday Expenses: Groceries", catalog.Categories[0].Name)
	assert.Equal(t, "c1", catalog.NameToID["everyday expenses: groceries"])
	assert.Equal(t, "Everyday Expenses: Groceries", catalog.IDToName["c1"])
}

func TestGetTransactions_BudgetScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/budget-1/transactions", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"transactions": [
			{"id": "tx1", "date": "2025-08-02", "amount": -57570, "payee_name": "Amazon.ca", "cleared": "cleared"}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "budget-1", nil)
	transactions, err := client.GetTransactions(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "tx1", transactions[0].ID)
	assert.Equal(t, money.Milliunits(-57570), transactions[0].Amount)
	assert.Equal(t, "2025-08-02", transactions[0].Date.Format("2006-01-02"))
}

func TestGetTransactions_AccountScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/budget-1/accounts/acct-9/transactions", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"transactions": []}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "budget-1", nil)
	transactions, err := client.GetTransactions(context.Background(), "acct-9")

	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestUpdateTransaction_SendsEnvelope(t *testing.T) {
	var captured map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/budgets/budget-1/transactions/tx1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"transaction": {"id": "tx1"}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "budget-1", nil)
	update := &TransactionUpdate{ID: "tx1", CategoryID: "c1", Memo: "two cans of cat food", Approved: true}

	err := client.UpdateTransaction(context.Background(), "tx1", update)

	require.NoError(t, err)
	require.Contains(t, captured, "transaction")

	var sent TransactionUpdate
	require.NoError(t, json.Unmarshal(captured["transaction"], &sent))
	assert.Equal(t, "c1", sent.CategoryID)
	assert.Equal(t, "two cans of cat food", sent.Memo)
	assert.True(t, sent.Approved)
}

func TestClient_AuthErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"id": "401", "name": "unauthorized", "detail": "Unauthorized"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key", "budget-1", nil)
	_, err := client.GetCategories(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuth())
	assert.Equal(t, "Unauthorized", apiErr.Detail)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"detail": "Budget not found"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "missing", nil)
	_, err := client.GetTransactions(context.Background(), "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-08-02")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-08-02"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDate_UnmarshalTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-08-02T15:04:05Z"`), &d))
	assert.Equal(t, "2025-08-02", d.Format("2006-01-02"))
}
