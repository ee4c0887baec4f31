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
)

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txRemoveCmd)

	txAddCmd.Flags().StringP("type", "t", "debt", "Transaction type: debt or payment")
	txAddCmd.Flags().StringP("date", "d", "", "Transaction date (YYYY-MM-DD, default today)")
	txAddCmd.Flags().StringP("note", "n", "", "Description")
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and inspect ledger transactions",
}

// ─── tx add ─────────────────────────────────────────────────────────────────

var txAddCmd = &cobra.Command{
	Use:   "add ACCOUNT_ID AMOUNT",
	Short: "Append a debt or payment to an account's ledger",
	Args:  cobra.ExactArgs(2),
	RunE:  runTxAdd,
}

func runTxAdd(cmd *cobra.Command, args []string) error {
	typ, _ := cmd.Flags().GetString("type")
	dateStr, _ := cmd.Flags().GetString("date")
	note, _ := cmd.Flags().GetString("note")

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	date := time.Now()
	if dateStr != "" {
		date, err = time.ParseInLocation(time.DateOnly, dateStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", dateStr, err)
		}
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   args[0],
		Type:        domain.TxType(typ),
		Amount:      amount,
		Date:        date,
		Description: note,
	}
	if err := db.AddTransaction(tx); err != nil {
		return err
	}

	account, err := db.GetAccount(tx.AccountID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded %s of %s; balance is now %s\n", tx.Type, tx.Amount, account.Balance)
	return nil
}

// ─── tx list ────────────────────────────────────────────────────────────────

var txListCmd = &cobra.Command{
	Use:   "list ACCOUNT_ID",
	Short: "List an account's transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxList,
}

func runTxList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.GetAccount(args[0]); err != nil {
		return err
	}
	txs, err := db.ListTransactions(args[0])
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(os.Stdout, "No transactions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tNOTE")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date.Format(time.DateOnly), tx.Type, tx.Amount, tx.Description)
	}
	return w.Flush()
}

// ─── tx rm ──────────────────────────────────────────────────────────────────

var txRemoveCmd = &cobra.Command{
	Use:   "rm TX_ID",
	Short: "Delete a transaction, reversing its balance effect",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxRemove,
}

func runTxRemove(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteTransaction(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted transaction %s\n", args[0])
	return nil
}
