// Package projection derives read-only views from accounts and the
// transaction log: per-account ledgers with a running balance and
// type-level aggregate totals. Nothing here mutates state.
package projection

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Service builds ledger views over a store snapshot.
type Service struct {
	store store.Store
}

// NewService creates a projection Service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// LedgerFilter narrows an account ledger. Zero values mean unfiltered;
// Search matches description or reference, case-insensitively.
type LedgerFilter struct {
	From   time.Time
	To     time.Time
	Search string
}

func (f LedgerFilter) matches(txn model.Transaction) bool {
	if !f.From.IsZero() && txn.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && txn.Date.After(f.To) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(txn.Description), needle) &&
			!strings.Contains(strings.ToLower(txn.Reference), needle) {
			return false
		}
	}
	return true
}

// AccountLedger returns the account's posted and reconciled transactions as
// ledger lines sorted by date (ties keep insertion order), with a running
// balance column.
//
// The running balance is a forward accumulation seeded from the account's
// current stored balance, matching the behavior this ledger inherited: the
// first rows are NOT balances as of their historical dates. A true
// as-of-date ledger would replay from inception instead.
func (s *Service) AccountLedger(ctx context.Context, accountID string, filter LedgerFilter) ([]model.LedgerLine, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", accountID, err)
	}
	txns, err := s.store.ListAccountTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for %s: %w", accountID, err)
	}

	var selected []model.Transaction
	for _, txn := range txns {
		if txn.Counts() && filter.matches(txn) {
			selected = append(selected, txn)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date.Before(selected[j].Date)
	})

	normalDebit := acct.Type.NormalSide() == model.SideDebit
	running := acct.Balance
	lines := make([]model.LedgerLine, 0, len(selected))
	for _, txn := range selected {
		line := model.LedgerLine{
			TransactionID: txn.ID,
			Date:          txn.Date,
			Description:   txn.Description,
			Reference:     txn.Reference,
		}
		if txn.DebitAccountID == accountID {
			line.Debit = txn.Amount
		} else {
			line.Credit = txn.Amount
		}
		if normalDebit {
			running = running.Add(line.Debit.Sub(line.Credit))
		} else {
			running = running.Add(line.Credit.Sub(line.Debit))
		}
		line.RunningBalance = running
		lines = append(lines, line)
	}
	return lines, nil
}

// TypeAggregate sums the stored balance of every account of the given
// type. The sum is flat: parent and child balances both count, so charts
// whose rollup accounts carry their own balance will double-count in
// reports built from this.
func TypeAggregate(accounts []model.Account, acctType model.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == acctType {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// NetIncome is revenue minus expenses over the snapshot.
func NetIncome(accounts []model.Account) decimal.Decimal {
	return TypeAggregate(accounts, model.AccountTypeRevenue).
		Sub(TypeAggregate(accounts, model.AccountTypeExpense))
}

// BalanceCheck is assets minus liabilities minus equity; on a chart built
// purely through postings it stays near zero plus accumulated net income.
func BalanceCheck(accounts []model.Account) decimal.Decimal {
	return TypeAggregate(accounts, model.AccountTypeAsset).
		Sub(TypeAggregate(accounts, model.AccountTypeLiability)).
		Sub(TypeAggregate(accounts, model.AccountTypeEquity))
}

// Summary bundles the standard financial aggregates for reporting.
type Summary struct {
	Assets       decimal.Decimal
	Liabilities  decimal.Decimal
	Equity       decimal.Decimal
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	NetIncome    decimal.Decimal
	BalanceCheck decimal.Decimal
}

// Summarize computes a Summary over the snapshot.
func Summarize(accounts []model.Account) Summary {
	return Summary{
		Assets:       TypeAggregate(accounts, model.AccountTypeAsset),
		Liabilities:  TypeAggregate(accounts, model.AccountTypeLiability),
		Equity:       TypeAggregate(accounts, model.AccountTypeEquity),
		Revenue:      TypeAggregate(accounts, model.AccountTypeRevenue),
		Expenses:     TypeAggregate(accounts, model.AccountTypeExpense),
		NetIncome:    NetIncome(accounts),
		BalanceCheck: BalanceCheck(accounts),
	}
}
