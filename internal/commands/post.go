package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/posting"
)

const dateFormat = "2006-01-02"

func newPostCommand(configPath *string) *cobra.Command {
	var (
		debitCode   string
		creditCode  string
		amount      string
		date        string
		txnType     string
		description string
		reference   string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a double-entry transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}

			params := posting.PostParams{
				Type:        model.TransactionType(txnType),
				Description: description,
				Amount:      amt,
				Reference:   reference,
				Notes:       notes,
			}
			if date != "" {
				params.Date, err = time.Parse(dateFormat, date)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", date, err)
				}
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			params.DebitAccountID, err = e.accountByCode(cmd.Context(), debitCode)
			if err != nil {
				return err
			}
			params.CreditAccountID, err = e.accountByCode(cmd.Context(), creditCode)
			if err != nil {
				return err
			}

			txn, err := e.poster.Post(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Printf("Posted %s: %s debit %s / credit %s\n",
				txn.ID, formatAmount(txn.Amount), debitCode, creditCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&debitCode, "debit", "", "debit account code (required)")
	cmd.Flags().StringVar(&creditCode, "credit", "", "credit account code (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "transaction amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&txnType, "type", string(model.TxnAdjustment), "transaction type")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&reference, "reference", "", "external document number")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("debit")
	_ = cmd.MarkFlagRequired("credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newVoidCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "void TRANSACTION_ID",
		Short: "Void a posted transaction, reversing its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			txn, err := e.poster.Void(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Voided %s (%s)\n", txn.ID, formatAmount(txn.Amount))
			return nil
		},
	}
}
