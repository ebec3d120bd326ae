package reconcile

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/posting"
	"github.com/tally-dev/tally/internal/store/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTrialBalance(t *testing.T) {
	accounts := []model.Account{
		{Code: "4100", Name: "Sales", Type: model.AccountTypeRevenue, Balance: dec("500")},
		{Code: "1110", Name: "Cash", Type: model.AccountTypeAsset, Balance: dec("500")},
	}

	rows := TrialBalance(accounts)
	require.Len(t, rows, 2)

	// Sorted by code; each balance lands in the account's normal column.
	assert.Equal(t, "1110", rows[0].Code)
	assert.True(t, rows[0].Debit.Equal(dec("500")))
	assert.True(t, rows[0].Credit.IsZero())
	assert.Equal(t, "4100", rows[1].Code)
	assert.True(t, rows[1].Credit.Equal(dec("500")))
	assert.True(t, rows[1].Debit.IsZero())

	assert.True(t, IsBalanced(rows, DefaultTolerance))
}

func TestTrialBalance_NegativeBalances(t *testing.T) {
	accounts := []model.Account{
		{Code: "1110", Name: "Cash", Type: model.AccountTypeAsset, Balance: dec("-75")},
		{Code: "2110", Name: "AP", Type: model.AccountTypeLiability, Balance: dec("-75")},
	}

	rows := TrialBalance(accounts)
	require.Len(t, rows, 2)

	// A negative balance flips to the opposite column as a positive number.
	assert.True(t, rows[0].Credit.Equal(dec("75")))
	assert.True(t, rows[0].Debit.IsZero())
	assert.True(t, rows[1].Debit.Equal(dec("75")))
	assert.True(t, rows[1].Credit.IsZero())

	assert.True(t, IsBalanced(rows, DefaultTolerance))
}

func TestIsBalanced_Tolerance(t *testing.T) {
	rows := []Row{
		{Debit: dec("100.00")},
		{Credit: dec("100.009")},
	}
	assert.True(t, IsBalanced(rows, DefaultTolerance))

	// The drift must be strictly below tolerance.
	rows = []Row{{Debit: dec("100.00")}, {Credit: dec("100.01")}}
	assert.False(t, IsBalanced(rows, DefaultTolerance))

	rows = []Row{{Debit: dec("100.00")}, {Credit: dec("103.00")}}
	assert.False(t, IsBalanced(rows, DefaultTolerance))
	assert.True(t, IsBalanced(rows, dec("5")))
}

func TestTotals(t *testing.T) {
	debit, credit := Totals([]Row{
		{Debit: dec("10")},
		{Debit: dec("5"), Credit: dec("1")},
		{Credit: dec("14")},
	})
	assert.True(t, debit.Equal(dec("15")))
	assert.True(t, credit.Equal(dec("15")))
}

// Balances reached purely through postings always produce a balanced trial
// balance.
func TestTrialBalance_AfterPostings(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	seed := []model.Account{
		{ID: "cash", Code: "1110", Name: "Cash", Type: model.AccountTypeAsset},
		{ID: "ap", Code: "2110", Name: "AP", Type: model.AccountTypeLiability},
		{ID: "equity", Code: "3100", Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{ID: "sales", Code: "4100", Name: "Sales", Type: model.AccountTypeRevenue},
		{ID: "cogs", Code: "5100", Name: "COGS", Type: model.AccountTypeExpense},
	}
	for _, a := range seed {
		a.Status = model.AccountActive
		require.NoError(t, st.CreateAccount(ctx, a))
	}

	svc := posting.NewService(st)
	postings := []struct {
		debit, credit, amount string
	}{
		{"cash", "equity", "1000"}, // owner funds the business
		{"cash", "sales", "500"},   // cash sale
		{"cogs", "ap", "150"},      // stock on credit
		{"ap", "cash", "100"},      // pay down the payable
		{"cogs", "cash", "25"},     // cash expense
	}
	for _, p := range postings {
		_, err := svc.Post(ctx, posting.PostParams{
			DebitAccountID: p.debit, CreditAccountID: p.credit, Amount: dec(p.amount),
		})
		require.NoError(t, err)
	}

	accounts, err := st.ListAccounts(ctx)
	require.NoError(t, err)
	rows := TrialBalance(accounts)
	debit, credit := Totals(rows)
	assert.True(t, debit.Equal(credit), "debits %s != credits %s", debit, credit)
	assert.True(t, IsBalanced(rows, DefaultTolerance))
}
