package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tallybook/tallybook/internal/infra/changefeed"
	"github.com/tallybook/tallybook/internal/infra/sqlite"
)

// ─── Test Setup ─────────────────────────────────────────────────────────────

func setupServer(t *testing.T) (http.Handler, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	feed := changefeed.New()
	db.SetOnChange(feed.Publish)

	return NewServer(db, feed).Handler(), db
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
}

func createTestAccount(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/accounts", map[string]interface{}{
		"kind": "customer",
		"name": "Asha Stores",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func postTx(t *testing.T, h http.Handler, accountID, typ, amount, date string) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/accounts/"+accountID+"/transactions", map[string]interface{}{
		"type":   typ,
		"amount": amount,
		"date":   date,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add %s: status %d, body %s", typ, w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

// rfc3339 renders a local-time calendar date for request payloads.
func rfc3339(y, m, d int) string {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local).Format(time.RFC3339)
}

// ─── Basic Endpoints ────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestVersion(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/api/version", nil)

	var resp map[string]string
	decode(t, w, &resp)
	if resp["version"] != Version {
		t.Errorf("version = %q, want %q", resp["version"], Version)
	}
}

// ─── Account Endpoints ──────────────────────────────────────────────────────

func TestCreateAndListAccounts(t *testing.T) {
	h, _ := setupServer(t)
	createTestAccount(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/accounts?kind=customer", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var accounts []map[string]interface{}
	decode(t, w, &accounts)
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	if accounts[0]["name"] != "Asha Stores" {
		t.Errorf("name = %v", accounts[0]["name"])
	}
}

func TestCreateAccount_BadKind(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodPost, "/api/accounts", map[string]interface{}{
		"kind": "vendor",
		"name": "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/api/accounts/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteAccount(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)

	w := doJSON(t, h, http.MethodDelete, "/api/accounts/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

// ─── Transaction Endpoints ──────────────────────────────────────────────────

func TestTransactionLifecycle(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)

	postTx(t, h, id, "debt", "100", rfc3339(2024, 1, 5))
	txID := postTx(t, h, id, "payment", "40", rfc3339(2024, 1, 10))

	// Balance reflects both mutations.
	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+id, nil)
	var account struct {
		Balance string `json:"balance"`
	}
	decode(t, w, &account)
	if account.Balance != "60" {
		t.Errorf("balance = %s, want 60", account.Balance)
	}

	// Edit the payment; balance follows.
	w = doJSON(t, h, http.MethodPut, "/api/transactions/"+txID, map[string]interface{}{
		"type":   "payment",
		"amount": "70",
		"date":   rfc3339(2024, 1, 10),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update tx status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+id, nil)
	decode(t, w, &account)
	if account.Balance != "30" {
		t.Errorf("balance after edit = %s, want 30", account.Balance)
	}

	// Delete it; the effect is reversed.
	w = doJSON(t, h, http.MethodDelete, "/api/transactions/"+txID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete tx status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/accounts/"+id, nil)
	decode(t, w, &account)
	if account.Balance != "100" {
		t.Errorf("balance after delete = %s, want 100", account.Balance)
	}
}

func TestAddTransaction_Invalid(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/accounts/"+id+"/transactions", map[string]interface{}{
		"type":   "debt",
		"amount": "-10",
		"date":   rfc3339(2024, 1, 5),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAccountSummary(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)
	postTx(t, h, id, "debt", "100", rfc3339(2024, 1, 5))
	postTx(t, h, id, "debt", "60", rfc3339(2024, 1, 8))
	postTx(t, h, id, "payment", "40", rfc3339(2024, 1, 10))

	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+id+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Balance       string `json:"balance"`
		TotalDebts    string `json:"total_debts"`
		TotalPayments string `json:"total_payments"`
		TxCount       int    `json:"tx_count"`
	}
	decode(t, w, &resp)
	if resp.Balance != "120" {
		t.Errorf("balance = %s, want 120", resp.Balance)
	}
	if resp.TotalDebts != "160" {
		t.Errorf("total_debts = %s, want 160", resp.TotalDebts)
	}
	if resp.TotalPayments != "40" {
		t.Errorf("total_payments = %s, want 40", resp.TotalPayments)
	}
	if resp.TxCount != 3 {
		t.Errorf("tx_count = %d, want 3", resp.TxCount)
	}
}

// ─── Report Endpoints ───────────────────────────────────────────────────────

func TestOverdueReport(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)
	postTx(t, h, id, "debt", "100", rfc3339(2024, 1, 5))
	postTx(t, h, id, "payment", "40", rfc3339(2024, 1, 10))

	// 15-day terms so the Jan 5 debt is due Jan 20.
	w := doJSON(t, h, http.MethodPut, "/api/settings", map[string]interface{}{
		"payment_terms_days": 15,
		"currency":           "USD",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("settings update status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/reports/overdue?today=2024-01-25", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		PaymentTermsDays int `json:"payment_terms_days"`
		Overdue          []struct {
			Account struct {
				ID string `json:"id"`
			} `json:"account"`
			DaysOverdue int `json:"days_overdue"`
		} `json:"overdue"`
	}
	decode(t, w, &resp)
	if resp.PaymentTermsDays != 15 {
		t.Errorf("payment_terms_days = %d, want 15", resp.PaymentTermsDays)
	}
	if len(resp.Overdue) != 1 {
		t.Fatalf("overdue rows = %d, want 1", len(resp.Overdue))
	}
	if resp.Overdue[0].Account.ID != id {
		t.Errorf("overdue account = %s, want %s", resp.Overdue[0].Account.ID, id)
	}
	if resp.Overdue[0].DaysOverdue != 5 {
		t.Errorf("days_overdue = %d, want 5", resp.Overdue[0].DaysOverdue)
	}

	// Settle the account; the report empties.
	postTx(t, h, id, "payment", "60", rfc3339(2024, 1, 24))
	w = doJSON(t, h, http.MethodGet, "/api/reports/overdue?today=2024-01-25", nil)
	decode(t, w, &resp)
	if len(resp.Overdue) != 0 {
		t.Errorf("overdue rows after settling = %d, want 0", len(resp.Overdue))
	}
}

func TestOverdueReport_BadToday(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/api/reports/overdue?today=January", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBalanceHistory(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)
	postTx(t, h, id, "debt", "100", rfc3339(2024, 1, 5))
	postTx(t, h, id, "payment", "40", rfc3339(2024, 1, 10))

	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+id+"/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Points []struct {
			Balance string `json:"balance"`
		} `json:"points"`
		EnoughForChart bool `json:"enough_for_chart"`
	}
	decode(t, w, &resp)
	if !resp.EnoughForChart {
		t.Error("expected enough_for_chart = true")
	}
	if len(resp.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(resp.Points))
	}
	if resp.Points[len(resp.Points)-1].Balance != "60" {
		t.Errorf("final point = %s, want 60", resp.Points[len(resp.Points)-1].Balance)
	}
}

func TestBalanceHistory_Degenerate(t *testing.T) {
	h, _ := setupServer(t)
	id := createTestAccount(t, h)

	w := doJSON(t, h, http.MethodGet, "/api/accounts/"+id+"/history", nil)
	var resp struct {
		Points         []interface{} `json:"points"`
		EnoughForChart bool          `json:"enough_for_chart"`
	}
	decode(t, w, &resp)
	if resp.EnoughForChart {
		t.Error("single-point series reported chartable")
	}
	if len(resp.Points) != 1 {
		t.Errorf("points = %d, want 1", len(resp.Points))
	}
}

// ─── Settings Endpoints ─────────────────────────────────────────────────────

func TestSettingsRoundTrip(t *testing.T) {
	h, _ := setupServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/settings", nil)
	var s struct {
		PaymentTermsDays int    `json:"payment_terms_days"`
		Currency         string `json:"currency"`
	}
	decode(t, w, &s)
	if s.PaymentTermsDays != 30 {
		t.Errorf("default terms = %d, want 30", s.PaymentTermsDays)
	}

	w = doJSON(t, h, http.MethodPut, "/api/settings", map[string]interface{}{
		"payment_terms_days": 7,
		"currency":           "INR",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/settings", nil)
	decode(t, w, &s)
	if s.PaymentTermsDays != 7 || s.Currency != "INR" {
		t.Errorf("settings after update = %+v", s)
	}
}

func TestSettings_NegativeTermsRejected(t *testing.T) {
	h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodPut, "/api/settings", map[string]interface{}{
		"payment_terms_days": -3,
		"currency":           "USD",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
