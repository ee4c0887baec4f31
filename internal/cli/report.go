package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/ledger"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportOverdueCmd)
	reportCmd.AddCommand(reportHistoryCmd)

	reportOverdueCmd.Flags().String("today", "", "Reference day (YYYY-MM-DD, default today)")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Ledger reports: overdue accounts and balance history",
}

// ─── report overdue ─────────────────────────────────────────────────────────

var reportOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List accounts past their payment terms",
	RunE:  runReportOverdue,
}

func runReportOverdue(cmd *cobra.Command, args []string) error {
	today := time.Now()
	if v, _ := cmd.Flags().GetString("today"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --today %q, want YYYY-MM-DD: %w", v, err)
		}
		today = parsed
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.GetSettings()
	if err != nil {
		return err
	}
	accounts, err := db.ListAccounts("")
	if err != nil {
		return err
	}

	txsByAccount := make(map[string][]domain.Transaction)
	for _, a := range accounts {
		if !a.Outstanding() {
			continue
		}
		txs, err := db.ListTransactions(a.ID)
		if err != nil {
			return err
		}
		txsByAccount[a.ID] = txs
	}

	rows := ledger.ComputeOverdue(accounts, txsByAccount, settings.PaymentTermsDays, today)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No overdue accounts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBALANCE\tOLDEST DEBT\tDUE\tDAYS LATE")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			row.Account.Name, row.Account.Balance,
			row.OldestDebt.Format(time.DateOnly), row.DueDate.Format(time.DateOnly),
			row.DaysOverdue)
	}
	return w.Flush()
}

// ─── report history ─────────────────────────────────────────────────────────

var reportHistoryCmd = &cobra.Command{
	Use:   "history ACCOUNT_ID",
	Short: "Print an account's daily balance series",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportHistory,
}

func runReportHistory(cmd *cobra.Command, args []string) error {
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

	points, enough := ledger.BalanceHistory(*account, txs)
	if !enough {
		fmt.Fprintln(os.Stdout, "Not enough history to chart yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tBALANCE")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Date.Format(time.DateOnly), p.Balance)
	}
	return w.Flush()
}
