// Package cli implements the tallybook command tree.
// Commands operate directly on the local store, so the merchant terminal
// works without the API server running.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybook/tallybook/internal/daemon"
	"github.com/tallybook/tallybook/internal/infra/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "tallybook",
	Short: "Track credit balances with customers and suppliers",
	Long: `tallybook keeps a merchant's credit book: debts and payments per
customer or supplier, with overdue detection and balance history built from
the transaction ledger itself.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the configured local store for a CLI command.
// Callers must Close it.
func openStore() (*sqlite.DB, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}
