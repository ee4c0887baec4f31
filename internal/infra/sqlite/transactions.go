package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Transaction Operations ─────────────────────────────────────────────────
//
// Each mutation runs in a single SQL transaction that also adjusts the owning
// account's materialized balance, so the ledger invariant survives every
// mutation path. The change notification fires only after commit.

// AddTransaction appends a transaction to an account's ledger and applies its
// effect to the account balance.
func (db *DB) AddTransaction(tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	sqlTx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback()

	if err := adjustBalance(sqlTx, tx.AccountID, tx.Effect()); err != nil {
		return err
	}

	_, err = sqlTx.Exec(`
		INSERT INTO transactions (id, account_id, type, amount, date, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.AccountID, string(tx.Type), tx.Amount.String(), tx.Date.Format(time.RFC3339Nano), tx.Description)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.notify(domain.Change{Op: domain.OpCreate, Entity: "transaction", ID: tx.ID, AccountID: tx.AccountID})
	return nil
}

// GetTransaction retrieves one transaction by ID.
func (db *DB) GetTransaction(id string) (*domain.Transaction, error) {
	row := db.db.QueryRow(`
		SELECT id, account_id, type, amount, date, description
		FROM transactions WHERE id = ?
	`, id)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTxNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns an account's full ledger in insertion order.
// The ledger core sorts by date itself; insertion order is what keeps its
// stable sort deterministic across reads.
func (db *DB) ListTransactions(accountID string) ([]domain.Transaction, error) {
	rows, err := db.db.Query(`
		SELECT id, account_id, type, amount, date, description
		FROM transactions WHERE account_id = ? ORDER BY rowid
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

// UpdateTransaction rewrites a transaction in place: the old effect is
// reversed and the new one applied in the same SQL transaction. Moving a
// transaction between accounts is not supported.
func (db *DB) UpdateTransaction(tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	sqlTx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback()

	old, err := getTransactionTx(sqlTx, tx.ID)
	if err != nil {
		return err
	}
	if old.AccountID != tx.AccountID {
		return domain.ErrAccountMismatch
	}

	if err := adjustBalance(sqlTx, tx.AccountID, tx.Effect().Sub(old.Effect())); err != nil {
		return err
	}

	_, err = sqlTx.Exec(`
		UPDATE transactions SET type = ?, amount = ?, date = ?, description = ?
		WHERE id = ?
	`, string(tx.Type), tx.Amount.String(), tx.Date.Format(time.RFC3339Nano), tx.Description, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.notify(domain.Change{Op: domain.OpUpdate, Entity: "transaction", ID: tx.ID, AccountID: tx.AccountID})
	return nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (db *DB) DeleteTransaction(id string) error {
	sqlTx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback()

	old, err := getTransactionTx(sqlTx, id)
	if err != nil {
		return err
	}

	if err := adjustBalance(sqlTx, old.AccountID, old.Effect().Neg()); err != nil {
		return err
	}

	if _, err := sqlTx.Exec(`DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.notify(domain.Change{Op: domain.OpDelete, Entity: "transaction", ID: id, AccountID: old.AccountID})
	return nil
}

// ─── Internal Helpers ───────────────────────────────────────────────────────

// adjustBalance applies a signed delta to an account's materialized balance
// within an open SQL transaction.
func adjustBalance(sqlTx *sql.Tx, accountID string, delta decimal.Decimal) error {
	var balanceStr string
	err := sqlTx.QueryRow(`SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&balanceStr)
	if err == sql.ErrNoRows {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("parse balance: %w", err)
	}

	_, err = sqlTx.Exec(`UPDATE accounts SET balance = ? WHERE id = ?`,
		balance.Add(delta).String(), accountID)
	if err != nil {
		return fmt.Errorf("write balance: %w", err)
	}
	return nil
}

func getTransactionTx(sqlTx *sql.Tx, id string) (*domain.Transaction, error) {
	row := sqlTx.QueryRow(`
		SELECT id, account_id, type, amount, date, description
		FROM transactions WHERE id = ?
	`, id)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTxNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func scanTransaction(row scannable) (*domain.Transaction, error) {
	var tx domain.Transaction
	var typ, amountStr, dateStr string
	if err := row.Scan(&tx.ID, &tx.AccountID, &typ, &amountStr, &dateStr, &tx.Description); err != nil {
		return nil, err
	}

	tx.Type = domain.TxType(typ)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	tx.Amount = amount

	date, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	tx.Date = date
	return &tx, nil
}
