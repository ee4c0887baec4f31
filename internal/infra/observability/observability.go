// Package observability exposes Prometheus metrics for the credit book.
// Mutation counters are driven by the changefeed, report metrics by the
// API layer; everything is served on /metrics via promhttp.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerMutations counts committed ledger mutations by entity and operation.
var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tallybook",
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Committed ledger mutations by entity and operation.",
}, []string{"entity", "op"})

// ─── Report Metrics ─────────────────────────────────────────────────────────

// OverdueScans counts overdue-report computations.
var OverdueScans = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tallybook",
	Subsystem: "reports",
	Name:      "overdue_scans_total",
	Help:      "Number of overdue report computations.",
})

// OverdueAccounts tracks the account count of the most recent overdue report.
var OverdueAccounts = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tallybook",
	Subsystem: "reports",
	Name:      "overdue_accounts",
	Help:      "Accounts past their payment terms as of the last overdue scan.",
})

// HistoryReplays counts balance-history computations.
var HistoryReplays = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tallybook",
	Subsystem: "reports",
	Name:      "history_replays_total",
	Help:      "Number of balance-history replays.",
})

// ─── Wiring ─────────────────────────────────────────────────────────────────

// ObserveChange records a committed mutation. Intended as a changefeed
// subscriber running for the life of the daemon.
func ObserveChange(c domain.Change) {
	LedgerMutations.WithLabelValues(c.Entity, string(c.Op)).Inc()
}
