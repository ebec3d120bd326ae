// Package reconcile produces the trial balance and verifies the accounting
// equation. The check is advisory: postings keep debits and credits equal
// by construction, so an imbalance here signals a data-integrity problem,
// not a user error.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// DefaultTolerance is the allowed debit/credit drift, in currency units.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Row is one trial-balance line: the account's entire balance placed in its
// normal column, or in the opposite column (as a positive number) when the
// balance is negative.
type Row struct {
	Code   string
	Name   string
	Type   model.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// TrialBalance builds one row per account, sorted by code.
func TrialBalance(accounts []model.Account) []Row {
	rows := make([]Row, 0, len(accounts))
	for _, a := range accounts {
		row := Row{Code: a.Code, Name: a.Name, Type: a.Type}
		normal := a.Type.NormalSide()
		switch {
		case a.Balance.IsNegative() && normal == model.SideDebit:
			row.Credit = a.Balance.Neg()
		case a.Balance.IsNegative():
			row.Debit = a.Balance.Neg()
		case normal == model.SideDebit:
			row.Debit = a.Balance
		default:
			row.Credit = a.Balance
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows
}

// Totals sums the debit and credit columns.
func Totals(rows []Row) (debit, credit decimal.Decimal) {
	for _, r := range rows {
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether total debits and credits agree within
// tolerance.
func IsBalanced(rows []Row, tolerance decimal.Decimal) bool {
	debit, credit := Totals(rows)
	return debit.Sub(credit).Abs().LessThan(tolerance)
}
