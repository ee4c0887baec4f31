package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/ledger"
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountRemoveCmd)

	accountAddCmd.Flags().StringP("kind", "k", "customer", "Account kind: customer or supplier")
	accountAddCmd.Flags().StringP("phone", "p", "", "Phone number")
	accountAddCmd.Flags().String("opening", "", "Opening balance (decimal, optional)")
	accountListCmd.Flags().StringP("kind", "k", "", "Filter by kind: customer or supplier")
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage customer and supplier accounts",
}

// ─── account add ────────────────────────────────────────────────────────────

var accountAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountAdd,
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	phone, _ := cmd.Flags().GetString("phone")
	opening, _ := cmd.Flags().GetString("opening")

	balance := decimal.Zero
	if opening != "" {
		var err error
		balance, err = decimal.NewFromString(opening)
		if err != nil {
			return fmt.Errorf("invalid opening balance %q: %w", opening, err)
		}
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	account := domain.Account{
		ID:        uuid.NewString(),
		Kind:      domain.AccountKind(kind),
		Name:      args[0],
		Phone:     phone,
		CreatedAt: time.Now(),
		Balance:   balance,
	}
	if err := db.CreateAccount(account); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created %s account %s (%s)\n", account.Kind, account.Name, account.ID)
	return nil
}

// ─── account list ───────────────────────────────────────────────────────────

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with their balances",
	RunE:  runAccountList,
}

func runAccountList(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	accounts, err := db.ListAccounts(domain.AccountKind(kind))
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Fprintln(os.Stdout, "No accounts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tPHONE\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Kind, a.Name, a.Phone, a.Balance)
	}
	return w.Flush()
}

// ─── account show ───────────────────────────────────────────────────────────

var accountShowCmd = &cobra.Command{
	Use:   "show ACCOUNT_ID",
	Short: "Show an account summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountShow,
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	account, err := db.GetAccount(args[0])
	if err != nil {
		return err
	}
	txs, err := db.ListTransactions(account.ID)
	if err != nil {
		return err
	}
	debts, payments := ledger.Totals(txs)

	fmt.Fprintf(os.Stdout, "%s (%s)\n", account.Name, account.Kind)
	fmt.Fprintf(os.Stdout, "  Created:        %s\n", account.CreatedAt.Format(time.DateOnly))
	fmt.Fprintf(os.Stdout, "  Balance:        %s\n", account.Balance)
	fmt.Fprintf(os.Stdout, "  Total debts:    %s\n", debts)
	fmt.Fprintf(os.Stdout, "  Total payments: %s\n", payments)
	fmt.Fprintf(os.Stdout, "  Transactions:   %d\n", len(txs))
	return nil
}

// ─── account rm ─────────────────────────────────────────────────────────────

var accountRemoveCmd = &cobra.Command{
	Use:   "rm ACCOUNT_ID",
	Short: "Delete an account and its entire ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRemove,
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteAccount(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted account %s\n", args[0])
	return nil
}
