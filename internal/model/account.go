package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Side is one of the two columns of a double-entry posting.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// normalSides is the closed polarity table: the side on which each account
// type's balance increases.
var normalSides = map[AccountType]Side{
	AccountTypeAsset:     SideDebit,
	AccountTypeExpense:   SideDebit,
	AccountTypeLiability: SideCredit,
	AccountTypeEquity:    SideCredit,
	AccountTypeRevenue:   SideCredit,
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	_, ok := normalSides[t]
	return ok
}

// NormalSide returns the side on which this account type's balance grows.
// Asset and Expense balances grow on the debit side, the rest on credit.
func (t AccountType) NormalSide() Side {
	return normalSides[t]
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account is one entry in the chart of accounts.
type Account struct {
	ID          string
	Code        string // unique, hierarchical by convention ("1110")
	Name        string
	Type        AccountType
	ParentID    string // empty = top-level
	Balance     decimal.Decimal
	Status      AccountStatus
	Imported    bool // set by bulk import only; imported accounts are permanent
	Description string
	CreatedAt   time.Time
}

// Active reports whether the account accepts postings.
func (a Account) Active() bool {
	return a.Status == AccountActive
}
