package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/registry"
)

func newAccountCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountAddCommand(configPath))
	cmd.AddCommand(newAccountRmCommand(configPath))
	cmd.AddCommand(newAccountImportCommand(configPath))
	return cmd
}

func newAccountAddCommand(configPath *string) *cobra.Command {
	var (
		code        string
		name        string
		acctType    string
		parentCode  string
		balance     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			params := registry.CreateParams{
				Code:        code,
				Name:        name,
				Type:        model.AccountType(strings.ToLower(acctType)),
				Description: description,
			}
			if balance != "" {
				params.Balance, err = decimal.NewFromString(balance)
				if err != nil {
					return fmt.Errorf("parsing balance %q: %w", balance, err)
				}
			}
			if parentCode != "" {
				params.ParentID, err = e.accountByCode(cmd.Context(), parentCode)
				if err != nil {
					return err
				}
			}

			acct, err := e.reg.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Printf("Created account %s %s (%s)\n", acct.Code, acct.Name, acct.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "account code (required)")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&acctType, "type", "", "asset|liability|equity|revenue|expense (required)")
	cmd.Flags().StringVar(&parentCode, "parent", "", "parent account code")
	cmd.Flags().StringVar(&balance, "balance", "", "opening balance")
	cmd.Flags().StringVar(&description, "description", "", "account description")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newAccountRmCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm CODE",
		Short: "Delete an account (blocked for imported or referenced accounts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.accountByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := e.reg.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted account %s\n", args[0])
			return nil
		},
	}
}

func newAccountImportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk-import accounts from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close() //nolint:errcheck

			rows, err := registry.ReadImportRows(f)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			result, err := e.reg.BulkImport(cmd.Context(), rows)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d accounts", result.Imported)
			if len(result.Skipped) > 0 {
				fmt.Printf(", skipped %d (%s)", len(result.Skipped), strings.Join(result.Skipped, ", "))
			}
			fmt.Println()
			return nil
		},
	}
}

func newChartCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Print the account hierarchy",
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
			printTree(registry.BuildHierarchy(accounts))
			return nil
		},
	}
}

func printTree(nodes []*registry.TreeNode) {
	for _, node := range nodes {
		a := node.Account
		fmt.Printf("%s%s  %s  %s  %s\n",
			strings.Repeat("  ", node.Level), a.Code, a.Name, a.Type, formatAmount(a.Balance))
		printTree(node.Children)
	}
}
