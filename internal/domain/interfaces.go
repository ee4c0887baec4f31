package domain

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.
// Reads return value snapshots — callers never observe in-place mutation.

// AccountStore abstracts persistent account storage.
type AccountStore interface {
	CreateAccount(a Account) error
	GetAccount(id string) (*Account, error)
	ListAccounts(kind AccountKind) ([]Account, error)
	UpdateAccount(a Account) error
	// DeleteAccount removes the account and all of its transactions.
	DeleteAccount(id string) error
}

// TransactionStore abstracts persistent ledger storage.
// Every mutation adjusts the owning account's cached balance in the same
// storage transaction, preserving the ledger invariant.
type TransactionStore interface {
	AddTransaction(tx Transaction) error
	GetTransaction(id string) (*Transaction, error)
	// ListTransactions returns the full ledger for one account, unordered.
	// The ledger core sorts internally.
	ListTransactions(accountID string) ([]Transaction, error)
	UpdateTransaction(tx Transaction) error
	DeleteTransaction(id string) error
}

// SettingsStore abstracts merchant-wide settings storage.
type SettingsStore interface {
	GetSettings() (Settings, error)
	UpdateSettings(s Settings) error
}

// Store is the full persistence surface the daemon wires together.
type Store interface {
	AccountStore
	TransactionStore
	SettingsStore
}

// ─── Change Notification ────────────────────────────────────────────────────

// ChangeOp identifies what kind of mutation occurred.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Change describes a single ledger mutation. The store emits one after each
// committed write; consumers re-fetch rather than patch local state.
type Change struct {
	Op        ChangeOp `json:"op"`
	Entity    string   `json:"entity"` // "account" or "transaction"
	ID        string   `json:"id"`
	AccountID string   `json:"account_id,omitempty"`
}
