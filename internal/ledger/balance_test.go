package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Test Helpers ───────────────────────────────────────────────────────────

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.Local)
}

func debt(amount string, date time.Time) domain.Transaction {
	return domain.Transaction{
		Type:   domain.TxDebt,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
}

func payment(amount string, date time.Time) domain.Transaction {
	return domain.Transaction{
		Type:   domain.TxPayment,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── NetBalance Tests ───────────────────────────────────────────────────────

func TestNetBalance(t *testing.T) {
	t1 := day(2024, 1, 5)

	tests := []struct {
		name string
		txs  []domain.Transaction
		want string
	}{
		{
			name: "empty ledger",
			txs:  nil,
			want: "0",
		},
		{
			name: "debts only",
			txs:  []domain.Transaction{debt("100", t1), debt("50", t1)},
			want: "150",
		},
		{
			name: "payments only",
			txs:  []domain.Transaction{payment("30", t1), payment("20", t1)},
			want: "-50",
		},
		{
			name: "mixed",
			txs:  []domain.Transaction{debt("100", t1), payment("40", t1), debt("25.50", t1)},
			want: "85.5",
		},
		{
			name: "exact decimal arithmetic",
			txs:  []domain.Transaction{debt("0.1", t1), debt("0.2", t1), payment("0.3", t1)},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetBalance(tt.txs)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("NetBalance() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNetBalance_OrderIndependent(t *testing.T) {
	txs := []domain.Transaction{
		debt("100", day(2024, 1, 5)),
		payment("40", day(2024, 1, 10)),
		debt("7.25", day(2024, 1, 2)),
	}
	reversed := []domain.Transaction{txs[2], txs[1], txs[0]}

	if !NetBalance(txs).Equal(NetBalance(reversed)) {
		t.Errorf("NetBalance depends on input order: %s vs %s", NetBalance(txs), NetBalance(reversed))
	}
}

func TestTotals(t *testing.T) {
	txs := []domain.Transaction{
		debt("100", day(2024, 1, 5)),
		payment("40", day(2024, 1, 10)),
		debt("60", day(2024, 1, 12)),
		payment("15", day(2024, 1, 20)),
	}

	debts, payments := Totals(txs)
	if !debts.Equal(dec("160")) {
		t.Errorf("debts = %s, want 160", debts)
	}
	if !payments.Equal(dec("55")) {
		t.Errorf("payments = %s, want 55", payments)
	}
}

// ─── InitialBalance Tests ───────────────────────────────────────────────────

func TestInitialBalance_ClosesLedgerInvariant(t *testing.T) {
	tests := []struct {
		name    string
		current string
		txs     []domain.Transaction
		want    string
	}{
		{
			name:    "zero seed",
			current: "60",
			txs:     []domain.Transaction{debt("100", day(2024, 1, 5)), payment("40", day(2024, 1, 10))},
			want:    "0",
		},
		{
			name:    "seeded opening balance",
			current: "250",
			txs:     []domain.Transaction{debt("100", day(2024, 1, 5)), payment("50", day(2024, 1, 10))},
			want:    "200",
		},
		{
			name:    "no transactions",
			current: "-30",
			txs:     nil,
			want:    "-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := InitialBalance(dec(tt.current), tt.txs)
			if !initial.Equal(dec(tt.want)) {
				t.Errorf("InitialBalance() = %s, want %s", initial, tt.want)
			}

			// Closure: initial + net effect must reproduce the current balance.
			if got := initial.Add(NetBalance(tt.txs)); !got.Equal(dec(tt.current)) {
				t.Errorf("initial + net = %s, want %s", got, tt.current)
			}

			// Idempotent: re-deriving from the same inputs changes nothing.
			if again := InitialBalance(dec(tt.current), tt.txs); !again.Equal(initial) {
				t.Errorf("second derivation = %s, want %s", again, initial)
			}
		})
	}
}

// ─── Calendar Helper Tests ──────────────────────────────────────────────────

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", day(2024, 1, 20), at(2024, 1, 20, 23, 59), 0},
		{"five days", day(2024, 1, 20), day(2024, 1, 25), 5},
		{"negative", day(2024, 1, 25), day(2024, 1, 20), -5},
		{"across month boundary", day(2024, 1, 30), day(2024, 2, 2), 3},
		{"intraday times ignored", at(2024, 1, 20, 23, 0), at(2024, 1, 21, 1, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("daysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortByDate_StableAndNonMutating(t *testing.T) {
	sameDay := day(2024, 3, 1)
	txs := []domain.Transaction{
		{ID: "b", Type: domain.TxDebt, Amount: dec("1"), Date: sameDay},
		{ID: "a", Type: domain.TxDebt, Amount: dec("1"), Date: day(2024, 2, 1)},
		{ID: "c", Type: domain.TxDebt, Amount: dec("1"), Date: sameDay},
	}

	asc := sortByDateAsc(txs)
	if asc[0].ID != "a" || asc[1].ID != "b" || asc[2].ID != "c" {
		t.Errorf("asc order = %s,%s,%s, want a,b,c", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc := sortByDateDesc(txs)
	// Equal dates keep input order under a stable sort.
	if desc[0].ID != "b" || desc[1].ID != "c" || desc[2].ID != "a" {
		t.Errorf("desc order = %s,%s,%s, want b,c,a", desc[0].ID, desc[1].ID, desc[2].ID)
	}

	// Input slice must be untouched.
	if txs[0].ID != "b" || txs[1].ID != "a" || txs[2].ID != "c" {
		t.Error("sort mutated its input")
	}
}
