package sqlite

import (
	"fmt"

	"github.com/tallybook/tallybook/internal/domain"
)

// ─── Settings Operations ────────────────────────────────────────────────────

// GetSettings returns the merchant-wide settings row.
func (db *DB) GetSettings() (domain.Settings, error) {
	var s domain.Settings
	err := db.db.QueryRow(`
		SELECT payment_terms_days, currency FROM settings WHERE id = 1
	`).Scan(&s.PaymentTermsDays, &s.Currency)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// UpdateSettings replaces the merchant-wide settings.
func (db *DB) UpdateSettings(s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := db.db.Exec(`
		UPDATE settings SET payment_terms_days = ?, currency = ? WHERE id = 1
	`, s.PaymentTermsDays, s.Currency)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	db.notify(domain.Change{Op: domain.OpUpdate, Entity: "settings", ID: "settings"})
	return nil
}
