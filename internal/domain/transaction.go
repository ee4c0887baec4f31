package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Transaction Types ──────────────────────────────────────────────────────

// TxType is the direction of a ledger event. Direction is encoded solely by
// the type — Amount is always positive, never signed.
type TxType string

const (
	// TxDebt records a purchase on credit: it increases the balance.
	TxDebt TxType = "debt"
	// TxPayment records money changing hands: it decreases the balance.
	TxPayment TxType = "payment"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == TxDebt || t == TxPayment
}

// Transaction is a single signed monetary event in an account's ledger.
// Transactions are immutable once created except via explicit edit/delete,
// and each such mutation atomically adjusts the owning account's balance.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Type        TxType          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// Validate checks the well-formedness rules enforced at the boundary.
// The ledger core assumes these hold and does not re-check them.
func (tx Transaction) Validate() error {
	if tx.AccountID == "" {
		return ErrNoAccountID
	}
	if !tx.Type.Valid() {
		return ErrInvalidTxType
	}
	if !tx.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Effect returns the signed contribution of this transaction to the balance:
// +Amount for a debt, −Amount for a payment.
func (tx Transaction) Effect() decimal.Decimal {
	if tx.Type == TxPayment {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
