package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Account Operations ─────────────────────────────────────────────────────

// CreateAccount inserts a new account. A non-zero Balance seeds an opening
// balance; the history replayer recovers it without it being stored twice.
func (db *DB) CreateAccount(a domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := db.db.Exec(`
		INSERT INTO accounts (id, kind, name, phone, created_at, balance)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Kind), a.Name, a.Phone, a.CreatedAt.Format(time.RFC3339Nano), a.Balance.String())
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	db.notify(domain.Change{Op: domain.OpCreate, Entity: "account", ID: a.ID})
	return nil
}

// GetAccount retrieves one account by ID.
func (db *DB) GetAccount(id string) (*domain.Account, error) {
	row := db.db.QueryRow(`
		SELECT id, kind, name, phone, created_at, balance
		FROM accounts WHERE id = ?
	`, id)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListAccounts returns accounts of the given kind ordered by name, or all
// accounts when kind is empty.
func (db *DB) ListAccounts(kind domain.AccountKind) ([]domain.Account, error) {
	query := `SELECT id, kind, name, phone, created_at, balance FROM accounts ORDER BY name, id`
	args := []interface{}{}
	if kind != "" {
		query = `SELECT id, kind, name, phone, created_at, balance FROM accounts WHERE kind = ? ORDER BY name, id`
		args = append(args, string(kind))
	}

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateAccount updates name and phone. Balance and kind are not updatable
// here: balance only moves with ledger mutations, kind is fixed at creation.
func (db *DB) UpdateAccount(a domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	res, err := db.db.Exec(`
		UPDATE accounts SET name = ?, phone = ? WHERE id = ?
	`, a.Name, a.Phone, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}

	db.notify(domain.Change{Op: domain.OpUpdate, Entity: "account", ID: a.ID})
	return nil
}

// DeleteAccount removes the account and, via ON DELETE CASCADE, its entire
// transaction ledger.
func (db *DB) DeleteAccount(id string) error {
	res, err := db.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}

	db.notify(domain.Change{Op: domain.OpDelete, Entity: "account", ID: id})
	return nil
}

// ─── Scanning ───────────────────────────────────────────────────────────────

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scannable) (*domain.Account, error) {
	var a domain.Account
	var kind, createdStr, balanceStr string
	if err := row.Scan(&a.ID, &kind, &a.Name, &a.Phone, &createdStr, &balanceStr); err != nil {
		return nil, err
	}

	a.Kind = domain.AccountKind(kind)

	created, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	a.CreatedAt = created

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	a.Balance = balance
	return &a, nil
}
