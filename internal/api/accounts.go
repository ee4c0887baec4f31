package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/ledger"
)

// ─── Account Handlers ───────────────────────────────────────────────────────

type createAccountRequest struct {
	Kind           domain.AccountKind `json:"kind"`
	Name           string             `json:"name"`
	Phone          string             `json:"phone"`
	OpeningBalance *decimal.Decimal   `json:"opening_balance,omitempty"`
}

// handleCreateAccount registers a new customer or supplier.
// POST /api/accounts
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	account := domain.Account{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
		Balance:   decimal.Zero,
	}
	if req.OpeningBalance != nil {
		account.Balance = *req.OpeningBalance
	}

	if err := s.store.CreateAccount(account); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// handleListAccounts lists accounts, optionally filtered by kind.
// GET /api/accounts?kind=customer|supplier
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	kind := domain.AccountKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidKind.Error())
		return
	}

	accounts, err := s.store.ListAccounts(kind)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleGetAccount returns one account.
// GET /api/accounts/{id}
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type updateAccountRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// handleUpdateAccount updates an account's name and phone.
// PUT /api/accounts/{id}
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	account, err := s.store.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	account.Name = req.Name
	account.Phone = req.Phone
	if err := s.store.UpdateAccount(*account); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleDeleteAccount removes an account and its entire ledger.
// DELETE /api/accounts/{id}
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAccountSummary returns the balance plus the per-side ledger totals.
// GET /api/accounts/{id}/summary
func (s *Server) handleAccountSummary(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	txs, err := s.store.ListTransactions(account.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	debts, payments := ledger.Totals(txs)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account":        account,
		"balance":        account.Balance,
		"total_debts":    debts,
		"total_payments": payments,
		"tx_count":       len(txs),
	})
}

// ─── Transaction Handlers ───────────────────────────────────────────────────

type transactionRequest struct {
	Type        domain.TxType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
	Description string          `json:"description"`
}

// handleAddTransaction appends a debt or payment to an account's ledger.
// POST /api/accounts/{id}/transactions
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   chi.URLParam(r, "id"),
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        time.Now(),
		Description: req.Description,
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}

	if err := s.store.AddTransaction(tx); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// handleListTransactions returns an account's full ledger.
// GET /api/accounts/{id}/transactions
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetAccount(id); err != nil {
		writeStoreError(w, err)
		return
	}

	txs, err := s.store.ListTransactions(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// handleGetTransaction returns one transaction.
// GET /api/transactions/{id}
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.GetTransaction(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// handleUpdateTransaction edits a transaction in place; the account balance
// is re-adjusted atomically by the store.
// PUT /api/transactions/{id}
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	existing, err := s.store.GetTransaction(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	existing.Type = req.Type
	existing.Amount = req.Amount
	existing.Description = req.Description
	if req.Date != nil {
		existing.Date = *req.Date
	}

	if err := s.store.UpdateTransaction(*existing); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteTransaction removes a transaction, reversing its effect.
// DELETE /api/transactions/{id}
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Error Mapping ──────────────────────────────────────────────────────────

// writeStoreError maps domain errors onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrTxNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrNoAccountID),
		errors.Is(err, domain.ErrInvalidTxType),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrZeroDate),
		errors.Is(err, domain.ErrAccountMismatch),
		errors.Is(err, domain.ErrNegativeTerms):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
