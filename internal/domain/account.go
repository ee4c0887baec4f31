// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Account Types ──────────────────────────────────────────────────────────

// AccountKind distinguishes the two sides of the merchant's credit book.
type AccountKind string

const (
	// KindCustomer: positive balance means the customer owes the merchant.
	KindCustomer AccountKind = "customer"
	// KindSupplier: positive balance means the merchant owes the supplier.
	KindSupplier AccountKind = "supplier"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

// Account is one party the merchant keeps a running balance with.
// Balance is a materialized view over the account's transactions: it must
// always equal initialBalance + Σ(debts) − Σ(payments). The store adjusts it
// in the same transaction as every ledger mutation; readers never recompute it.
type Account struct {
	ID        string          `json:"id"`
	Kind      AccountKind     `json:"kind"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Balance   decimal.Decimal `json:"balance"`
}

// Validate checks the fields a new account must carry.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

// Outstanding reports whether the account currently owes anything.
// Only accounts with a strictly positive balance can ever be overdue.
func (a Account) Outstanding() bool {
	return a.Balance.IsPositive()
}

// ─── Merchant Settings ──────────────────────────────────────────────────────

// Settings holds merchant-wide ledger configuration.
type Settings struct {
	// PaymentTermsDays is the number of days after a debt is incurred
	// before it is considered late.
	PaymentTermsDays int    `json:"payment_terms_days"`
	Currency         string `json:"currency"`
}

// DefaultSettings returns the settings a fresh store is seeded with.
func DefaultSettings() Settings {
	return Settings{
		PaymentTermsDays: 30,
		Currency:         "USD",
	}
}

// Validate checks settings bounds.
func (s Settings) Validate() error {
	if s.PaymentTermsDays < 0 {
		return ErrNegativeTerms
	}
	return nil
}
