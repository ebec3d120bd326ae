package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalSide(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        Side
	}{
		{AccountTypeAsset, SideDebit},
		{AccountTypeExpense, SideDebit},
		{AccountTypeLiability, SideCredit},
		{AccountTypeEquity, SideCredit},
		{AccountTypeRevenue, SideCredit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.accountType.NormalSide(), "NormalSide(%s)", tt.accountType)
	}
}

func TestAccountTypeValid(t *testing.T) {
	for _, at := range []AccountType{
		AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense,
	} {
		assert.True(t, at.Valid(), "%s should be valid", at)
	}
	assert.False(t, AccountType("").Valid())
	assert.False(t, AccountType("bank").Valid())
}

func TestAccountActive(t *testing.T) {
	assert.True(t, Account{Status: AccountActive}.Active())
	assert.False(t, Account{Status: AccountInactive}.Active())
	assert.False(t, Account{}.Active())
}
