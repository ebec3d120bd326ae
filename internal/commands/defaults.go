package commands

import (
	"context"
	"fmt"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/registry"
)

type seedAccount struct {
	code        string
	name        string
	accountType model.AccountType
	parentCode  string
	description string
}

// defaultChart is the starter chart of accounts written by init.
var defaultChart = []seedAccount{
	{code: "1000", name: "Assets", accountType: model.AccountTypeAsset},
	{code: "1100", name: "Current Assets", accountType: model.AccountTypeAsset, parentCode: "1000"},
	{code: "1110", name: "Cash", accountType: model.AccountTypeAsset, parentCode: "1100", description: "Cash on hand and in bank"},
	{code: "1120", name: "Accounts Receivable", accountType: model.AccountTypeAsset, parentCode: "1100"},
	{code: "1130", name: "Inventory", accountType: model.AccountTypeAsset, parentCode: "1100"},
	{code: "2000", name: "Liabilities", accountType: model.AccountTypeLiability},
	{code: "2110", name: "Accounts Payable", accountType: model.AccountTypeLiability, parentCode: "2000"},
	{code: "2120", name: "Taxes Payable", accountType: model.AccountTypeLiability, parentCode: "2000"},
	{code: "3000", name: "Equity", accountType: model.AccountTypeEquity},
	{code: "3100", name: "Owner's Equity", accountType: model.AccountTypeEquity, parentCode: "3000"},
	{code: "4000", name: "Revenue", accountType: model.AccountTypeRevenue},
	{code: "4100", name: "Sales", accountType: model.AccountTypeRevenue, parentCode: "4000"},
	{code: "5000", name: "Expenses", accountType: model.AccountTypeExpense},
	{code: "5100", name: "Cost of Goods Sold", accountType: model.AccountTypeExpense, parentCode: "5000"},
	{code: "5200", name: "Salaries & Wages", accountType: model.AccountTypeExpense, parentCode: "5000"},
	{code: "5300", name: "Rent & Utilities", accountType: model.AccountTypeExpense, parentCode: "5000"},
}

// seedChart creates the default chart, wiring parents by code.
func seedChart(ctx context.Context, reg *registry.Service) error {
	idByCode := make(map[string]string, len(defaultChart))
	for _, seed := range defaultChart {
		params := registry.CreateParams{
			Code:        seed.code,
			Name:        seed.name,
			Type:        seed.accountType,
			ParentID:    idByCode[seed.parentCode],
			Description: seed.description,
		}
		acct, err := reg.Create(ctx, params)
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", seed.code, err)
		}
		idByCode[seed.code] = acct.ID
	}
	return nil
}
