package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Balance History Replayer ───────────────────────────────────────────────

// BalancePoint is one point of a chartable balance series.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// MinChartPoints is the smallest series worth charting. Callers should show
// a placeholder below this.
const MinChartPoints = 2

// BalanceHistory replays an account's ledger into a one-point-per-calendar-day
// cumulative balance series covering the account's lifetime.
//
// The series starts from the balance the account had at creation, back-solved
// from the current balance (see InitialBalance), so a seeded opening balance
// is charted correctly without being stored anywhere. A synthetic point at
// the account's creation date is always included, even when the first
// transaction comes later. When several transactions land on the same
// calendar day, only the balance after the last of them survives
// densification.
//
// enoughForChart is false when fewer than MinChartPoints remain; rendering a
// placeholder in that case is the caller's concern.
func BalanceHistory(account domain.Account, txs []domain.Transaction) (points []BalancePoint, enoughForChart bool) {
	sorted := sortByDateAsc(txs)

	running := InitialBalance(account.Balance, sorted)

	raw := make([]BalancePoint, 0, len(sorted)+1)
	raw = append(raw, BalancePoint{Date: account.CreatedAt, Balance: running})
	for _, tx := range sorted {
		running = running.Add(tx.Effect())
		raw = append(raw, BalancePoint{Date: tx.Date, Balance: running})
	}

	points = densifyDaily(raw)
	return points, len(points) >= MinChartPoints
}

// densifyDaily buckets points by calendar day, keeping only the last point of
// each day, and returns the buckets sorted ascending.
func densifyDaily(raw []BalancePoint) []BalancePoint {
	byDay := make(map[time.Time]BalancePoint, len(raw))
	for _, p := range raw {
		day := dayStart(p.Date)
		// Later points overwrite earlier ones for the same day; raw is
		// already in replay order.
		byDay[day] = BalancePoint{Date: day, Balance: p.Balance}
	}

	out := make([]BalancePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
