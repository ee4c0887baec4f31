package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/infra/observability"
	"github.com/tallybook/tallybook/internal/ledger"
)

// ─── Report Handlers ────────────────────────────────────────────────────────

// handleOverdueReport lists accounts currently past their payment terms.
// GET /api/reports/overdue?today=2024-01-25
//
// The optional today parameter (YYYY-MM-DD) fixes the reference day so that
// reports are reproducible; it defaults to the current day.
func (s *Server) handleOverdueReport(w http.ResponseWriter, r *http.Request) {
	today := time.Now()
	if v := r.URL.Query().Get("today"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid today parameter, want YYYY-MM-DD")
			return
		}
		today = parsed
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	accounts, err := s.store.ListAccounts("")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// Snapshot every outstanding account's ledger before reconstructing.
	txsByAccount := make(map[string][]domain.Transaction)
	for _, a := range accounts {
		if !a.Outstanding() {
			continue
		}
		txs, err := s.store.ListTransactions(a.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		txsByAccount[a.ID] = txs
	}

	rows := ledger.ComputeOverdue(accounts, txsByAccount, settings.PaymentTermsDays, today)
	if rows == nil {
		rows = []ledger.OverdueAccount{}
	}

	observability.OverdueScans.Inc()
	observability.OverdueAccounts.Set(float64(len(rows)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today":              today.Format(time.DateOnly),
		"payment_terms_days": settings.PaymentTermsDays,
		"overdue":            rows,
	})
}

// handleBalanceHistory returns the per-day balance series for one account.
// GET /api/accounts/{id}/history
func (s *Server) handleBalanceHistory(w http.ResponseWriter, r *http.Request) {
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

	points, enough := ledger.BalanceHistory(*account, txs)
	observability.HistoryReplays.Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account_id":       account.ID,
		"points":           points,
		"enough_for_chart": enough,
	})
}

// ─── Settings Handlers ──────────────────────────────────────────────────────

// handleGetSettings returns the merchant-wide settings.
// GET /api/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleUpdateSettings replaces the merchant-wide settings.
// PUT /api/settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.store.UpdateSettings(settings); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
