// Package ledger implements the core balance algorithms of the credit book:
// folding a transaction set into a net balance, reconstructing which past
// debts are still open to detect overdue accounts, and replaying a ledger
// into a per-day balance series for charting.
//
// Everything in this package is a pure, deterministic function of its inputs.
// Callers supply a consistent snapshot (all of an account's transactions plus
// the account's cached balance as of the same instant); the package performs
// no I/O and holds no state.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Balance Accumulator ────────────────────────────────────────────────────

// NetBalance folds a transaction set into its net effect on the balance:
// Σ(debt amounts) − Σ(payment amounts). Order of the input is irrelevant.
func NetBalance(txs []domain.Transaction) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		net = net.Add(tx.Effect())
	}
	return net
}

// Totals returns the two sides of the fold separately, for list views and
// account summaries.
func Totals(txs []domain.Transaction) (debts, payments decimal.Decimal) {
	debts, payments = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if tx.Type == domain.TxPayment {
			payments = payments.Add(tx.Amount)
		} else {
			debts = debts.Add(tx.Amount)
		}
	}
	return debts, payments
}

// InitialBalance back-solves the balance the account had at creation time
// from its current balance and full transaction history:
//
//	initial = current − Σ(debts) + Σ(payments)
//
// Deriving it instead of storing it avoids a second source of truth that
// could drift from the ledger invariant.
func InitialBalance(current decimal.Decimal, txs []domain.Transaction) decimal.Decimal {
	return current.Sub(NetBalance(txs))
}

// ─── Calendar Helpers ───────────────────────────────────────────────────────

// dayStart truncates t to the start of its calendar day in local time.
// All day bucketing and overdue comparisons happen at this granularity.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// daysBetween returns the number of whole calendar days from a to b
// (negative when b is before a). Days are compared as civil dates, so DST
// transitions cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// sortByDateAsc returns a copy of txs ordered oldest first. The sort is
// stable: transactions sharing a date keep their input order, which makes
// every downstream computation deterministic.
func sortByDateAsc(txs []domain.Transaction) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// sortByDateDesc returns a copy of txs ordered most recent first, stable on
// equal dates.
func sortByDateDesc(txs []domain.Transaction) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
