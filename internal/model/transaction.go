package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels the business document a posting came from. It is
// informational only and never affects posting math.
type TransactionType string

const (
	TxnSale       TransactionType = "sale"
	TxnPurchase   TransactionType = "purchase"
	TxnPayment    TransactionType = "payment"
	TxnReceipt    TransactionType = "receipt"
	TxnExpense    TransactionType = "expense"
	TxnRefund     TransactionType = "refund"
	TxnAdjustment TransactionType = "adjustment"
	TxnTransfer   TransactionType = "transfer"
)

// TransactionStatus is the lifecycle state of a journal entry.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusPosted     TransactionStatus = "posted"
	StatusReconciled TransactionStatus = "reconciled"
	StatusVoid       TransactionStatus = "void"
)

// Transaction is a two-leg journal entry: one debit account, one credit
// account, one amount.
type Transaction struct {
	ID              string
	Date            time.Time
	Type            TransactionType
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal // strictly positive
	Status          TransactionStatus
	Reference       string // external document number, if any
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// Counts reports whether the transaction participates in balance totals and
// trial-balance math. Void and pending entries never do.
func (t Transaction) Counts() bool {
	return t.Status == StatusPosted || t.Status == StatusReconciled
}

// LedgerLine is one derived row of a single account's ledger view. It is
// computed by the projector and never persisted.
type LedgerLine struct {
	TransactionID  string
	Date           time.Time
	Description    string
	Reference      string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
}
