// Package sqlite persists the credit book: accounts, their transaction
// ledgers, and merchant settings.
//
// The account balance column is a materialized view over the transactions
// table. Every ledger mutation adjusts it inside the same SQL transaction,
// so the invariant balance == initial + Σ(debts) − Σ(payments) holds after
// every commit. Readers trust the column; the ledger core back-solves the
// initial balance from it when replaying history.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tallybook/tallybook/internal/domain"
)

// DB wraps the SQLite connection and implements domain.Store.
type DB struct {
	db       *sql.DB
	onChange func(domain.Change)
}

// Open creates (if needed) and opens the credit-book database inside dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dir, "tallybook.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// SetOnChange installs the mutation notification callback. The callback runs
// after a successful commit, never inside the SQL transaction.
func (db *DB) SetOnChange(fn func(domain.Change)) { db.onChange = fn }

// notify emits a change event if a callback is installed.
func (db *DB) notify(c domain.Change) {
	if db.onChange != nil {
		db.onChange(c)
	}
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Customer and supplier accounts. balance is the materialized
		// net of the account's transactions, stored as an exact decimal
		// string.
		`CREATE TABLE IF NOT EXISTS accounts (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL CHECK (kind IN ('customer', 'supplier')),
			name       TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			balance    TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_kind ON accounts(kind)`,

		// The append-style ledger. rowid preserves insertion order, which
		// keeps stable sorts over tied dates deterministic across reads.
		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			account_id  TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			type        TEXT NOT NULL CHECK (type IN ('debt', 'payment')),
			amount      TEXT NOT NULL,
			date        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(account_id, date)`,

		// Merchant-wide settings, single row.
		`CREATE TABLE IF NOT EXISTS settings (
			id                 INTEGER PRIMARY KEY CHECK (id = 1),
			payment_terms_days INTEGER NOT NULL,
			currency           TEXT NOT NULL
		)`,
		`INSERT OR IGNORE INTO settings (id, payment_terms_days, currency) VALUES (1, 30, 'USD')`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
