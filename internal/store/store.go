// Package store defines the persistence contract for the ledger core. The
// core is stateless between calls; everything authoritative lives behind
// this interface.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ErrNotFound is returned when a referenced account or transaction does not
// exist.
var ErrNotFound = errors.New("not found")

// BalanceDelta is a signed adjustment to one account's stored balance,
// applied atomically together with the transaction record it belongs to.
type BalanceDelta struct {
	AccountID string
	Delta     decimal.Decimal
}

// Store is the persistence layer. Mutating methods that take multiple
// records (CreateAccounts, SavePosting, VoidTransaction) must commit all of
// them or none.
type Store interface {
	// Setup prepares the backing schema. Safe to call repeatedly.
	Setup(ctx context.Context) error

	CreateAccount(ctx context.Context, acct model.Account) error
	// CreateAccounts inserts all accounts in a single atomic unit.
	CreateAccounts(ctx context.Context, accts []model.Account) error
	UpdateAccount(ctx context.Context, acct model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	GetAccount(ctx context.Context, id string) (model.Account, error)
	// GetAccountByCode matches codes case-insensitively.
	GetAccountByCode(ctx context.Context, code string) (model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	// AccountHasTransactions reports whether any transaction references the
	// account on either leg, regardless of status.
	AccountHasTransactions(ctx context.Context, accountID string) (bool, error)

	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	// ListAccountTransactions returns transactions touching the account on
	// either leg, in insertion order.
	ListAccountTransactions(ctx context.Context, accountID string) ([]model.Transaction, error)

	// SavePosting persists the transaction record and applies both balance
	// deltas as one atomic unit.
	SavePosting(ctx context.Context, txn model.Transaction, deltas []BalanceDelta) error
	// VoidTransaction sets the transaction's status to void and applies the
	// reversal deltas as one atomic unit.
	VoidTransaction(ctx context.Context, id string, deltas []BalanceDelta) error

	Close() error
}
