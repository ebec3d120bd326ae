package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionCounts(t *testing.T) {
	tests := []struct {
		status TransactionStatus
		want   bool
	}{
		{StatusPosted, true},
		{StatusReconciled, true},
		{StatusPending, false},
		{StatusVoid, false},
	}
	for _, tt := range tests {
		txn := Transaction{Status: tt.status}
		assert.Equal(t, tt.want, txn.Counts(), "Counts() for %s", tt.status)
	}
}
