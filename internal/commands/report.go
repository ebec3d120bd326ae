package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/projection"
	"github.com/tally-dev/tally/internal/reconcile"
)

func newLedgerCommand(configPath *string) *cobra.Command {
	var (
		from   string
		to     string
		search string
	)

	cmd := &cobra.Command{
		Use:   "ledger CODE",
		Short: "Print an account's ledger with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := projection.LedgerFilter{Search: search}
			var err error
			if from != "" {
				filter.From, err = time.Parse(dateFormat, from)
				if err != nil {
					return fmt.Errorf("parsing --from %q: %w", from, err)
				}
			}
			if to != "" {
				filter.To, err = time.Parse(dateFormat, to)
				if err != nil {
					return fmt.Errorf("parsing --to %q: %w", to, err)
				}
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.accountByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			lines, err := e.proj.AccountLedger(cmd.Context(), id, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tDESCRIPTION\tREF\tDEBIT\tCREDIT\tBALANCE")
			for _, line := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					line.Date.Format(dateFormat), line.Description, line.Reference,
					formatAmount(line.Debit), formatAmount(line.Credit),
					formatAmount(line.RunningBalance))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&search, "search", "", "filter on description or reference")

	return cmd
}

func newTrialBalanceCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance and check it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			accounts, err := e.reg.All(cmd.Context())
			if err != nil {
				return err
			}
			rows := reconcile.TrialBalance(accounts)
			debit, credit := reconcile.Totals(rows)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tTYPE\tDEBIT\tCREDIT")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					row.Code, row.Name, row.Type, formatAmount(row.Debit), formatAmount(row.Credit))
			}
			fmt.Fprintf(w, "\tTOTAL\t\t%s\t%s\n", formatAmount(debit), formatAmount(credit))
			if err := w.Flush(); err != nil {
				return err
			}

			if reconcile.IsBalanced(rows, e.tolerance()) {
				fmt.Println("Balanced.")
				return nil
			}
			return fmt.Errorf("trial balance is off by %s", formatAmount(debit.Sub(credit).Abs()))
		},
	}
}

func newSummaryCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print type totals, net income and the balance check",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			accounts, err := e.reg.All(cmd.Context())
			if err != nil {
				return err
			}
			s := projection.Summarize(accounts)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Assets\t%s\n", formatAmount(s.Assets))
			fmt.Fprintf(w, "Liabilities\t%s\n", formatAmount(s.Liabilities))
			fmt.Fprintf(w, "Equity\t%s\n", formatAmount(s.Equity))
			fmt.Fprintf(w, "Revenue\t%s\n", formatAmount(s.Revenue))
			fmt.Fprintf(w, "Expenses\t%s\n", formatAmount(s.Expenses))
			fmt.Fprintf(w, "Net income\t%s\n", formatAmount(s.NetIncome))
			fmt.Fprintf(w, "Balance check\t%s\n", formatAmount(s.BalanceCheck))
			return w.Flush()
		},
	}
}
