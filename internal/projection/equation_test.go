package projection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/posting"
	"github.com/tally-dev/tally/internal/store/memory"
)

// Starting from a balanced (all-zero) chart, any sequence of valid postings
// keeps Assets - Liabilities - Equity equal to accumulated net income.
func TestEquationInvariantAfterPostings(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	for _, a := range []model.Account{
		{ID: "cash", Code: "1110", Name: "Cash", Type: model.AccountTypeAsset},
		{ID: "ar", Code: "1120", Name: "AR", Type: model.AccountTypeAsset},
		{ID: "ap", Code: "2110", Name: "AP", Type: model.AccountTypeLiability},
		{ID: "equity", Code: "3100", Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{ID: "sales", Code: "4100", Name: "Sales", Type: model.AccountTypeRevenue},
		{ID: "rent", Code: "5300", Name: "Rent", Type: model.AccountTypeExpense},
	} {
		a.Status = model.AccountActive
		require.NoError(t, st.CreateAccount(ctx, a))
	}

	svc := posting.NewService(st)
	postings := []struct {
		debit, credit, amount string
	}{
		{"cash", "equity", "2000"},
		{"ar", "sales", "800"},
		{"cash", "ar", "300"},
		{"rent", "cash", "450"},
		{"rent", "ap", "50"},
	}
	for _, p := range postings {
		_, err := svc.Post(ctx, posting.PostParams{
			DebitAccountID: p.debit, CreditAccountID: p.credit, Amount: dec(p.amount),
		})
		require.NoError(t, err)

		accounts, err := st.ListAccounts(ctx)
		require.NoError(t, err)
		check := BalanceCheck(accounts)
		income := NetIncome(accounts)
		assert.True(t, check.Equal(income),
			"balance check %s diverged from net income %s", check, income)
	}
}
