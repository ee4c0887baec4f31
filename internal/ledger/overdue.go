package ledger

import (
	"time"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Overdue Reconstructor ──────────────────────────────────────────────────
//
// Transactions are not individually tagged paid/unpaid, so the system infers
// which debts remain open by consuming the most recent activity first until
// the outstanding balance is fully accounted for. This is a LIFO-style
// reconciliation, NOT FIFO: with partial payments it attributes the open
// amount to a different debt than an oldest-first walk would. That is a
// deliberate compatibility choice — existing reports depend on it — and must
// not be "fixed" to FIFO.

// OverdueAccount is one row of the overdue report.
type OverdueAccount struct {
	Account     domain.Account `json:"account"`
	OldestDebt  time.Time      `json:"oldest_debt"`
	DueDate     time.Time      `json:"due_date"`
	DaysOverdue int            `json:"days_overdue"`
}

// Overdue classifies a single account. It returns nil when the account is not
// overdue: balance ≤ 0, no debt attributable to the outstanding amount, or
// the due date has not yet passed.
//
// termsDays is the merchant-wide payment terms; today fixes the reference day
// so reports are reproducible.
func Overdue(account domain.Account, txs []domain.Transaction, termsDays int, today time.Time) *OverdueAccount {
	if !account.Outstanding() {
		return nil
	}

	// Walk backward from the most recent transaction, consuming the
	// outstanding balance. Debts reduce what is left to explain; payments
	// are re-added since we are undoing them as we move back in time.
	remaining := account.Balance
	var oldestDebt time.Time
	haveDebt := false

	for _, tx := range sortByDateDesc(txs) {
		if tx.Type == domain.TxDebt {
			oldestDebt = tx.Date
			haveDebt = true
			remaining = remaining.Sub(tx.Amount)
		} else {
			remaining = remaining.Add(tx.Amount)
		}
		if !remaining.IsPositive() {
			// Everything consumed so far is exactly the set of
			// transactions that explains the outstanding balance.
			break
		}
	}

	// Walk exhausted without covering the balance, or no debt seen at all:
	// there is no attributable debt date, so the account is not classified
	// as overdue.
	if remaining.IsPositive() || !haveDebt {
		return nil
	}

	dueDate := dayStart(oldestDebt).AddDate(0, 0, termsDays)
	if !dayStart(today).After(dueDate) {
		return nil
	}

	return &OverdueAccount{
		Account:     account,
		OldestDebt:  oldestDebt,
		DueDate:     dueDate,
		DaysOverdue: daysBetween(dueDate, today),
	}
}

// ComputeOverdue runs the overdue reconstruction over a set of accounts and
// returns the rows for those currently past their terms, in input order.
// txsByAccount maps account ID to that account's full transaction history.
func ComputeOverdue(accounts []domain.Account, txsByAccount map[string][]domain.Transaction, termsDays int, today time.Time) []OverdueAccount {
	var out []OverdueAccount
	for _, a := range accounts {
		if row := Overdue(a, txsByAccount[a.ID], termsDays, today); row != nil {
			out = append(out, *row)
		}
	}
	return out
}
