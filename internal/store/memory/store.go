// Package memory is an in-memory Store used by tests and ephemeral runs.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Store keeps accounts and transactions in maps guarded by a single mutex,
// so every mutating call is trivially atomic.
type Store struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	txns     map[string]model.Transaction
	txnOrder []string // insertion order of transaction IDs
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: make(map[string]model.Account),
		txns:     make(map[string]model.Transaction),
	}
}

// Setup is a no-op for the in-memory store.
func (s *Store) Setup(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

func (s *Store) CreateAccount(ctx context.Context, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accts []model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accts {
		s.accounts[a.ID] = a
	}
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acct.ID]; !ok {
		return store.ErrNotFound
	}
	s.accounts[acct.ID] = acct
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, store.ErrNotFound
	}
	return a, nil
}

func (s *Store) GetAccountByCode(ctx context.Context, code string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Code, code) {
			return a, nil
		}
	}
	return model.Account{}, store.ErrNotFound
}

func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accts := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accts = append(accts, a)
	}
	return accts, nil
}

func (s *Store) AccountHasTransactions(ctx context.Context, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.DebitAccountID == accountID || t.CreditAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok {
		return model.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txns := make([]model.Transaction, 0, len(s.txnOrder))
	for _, id := range s.txnOrder {
		txns = append(txns, s.txns[id])
	}
	return txns, nil
}

func (s *Store) ListAccountTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txns []model.Transaction
	for _, id := range s.txnOrder {
		t := s.txns[id]
		if t.DebitAccountID == accountID || t.CreditAccountID == accountID {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func (s *Store) SavePosting(ctx context.Context, txn model.Transaction, deltas []store.BalanceDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range deltas {
		if _, ok := s.accounts[d.AccountID]; !ok {
			return store.ErrNotFound
		}
	}
	for _, d := range deltas {
		a := s.accounts[d.AccountID]
		a.Balance = a.Balance.Add(d.Delta)
		s.accounts[d.AccountID] = a
	}
	s.txns[txn.ID] = txn
	s.txnOrder = append(s.txnOrder, txn.ID)
	return nil
}

func (s *Store) VoidTransaction(ctx context.Context, id string, deltas []store.BalanceDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, d := range deltas {
		if _, ok := s.accounts[d.AccountID]; !ok {
			return store.ErrNotFound
		}
	}
	for _, d := range deltas {
		a := s.accounts[d.AccountID]
		a.Balance = a.Balance.Add(d.Delta)
		s.accounts[d.AccountID] = a
	}
	t.Status = model.StatusVoid
	s.txns[id] = t
	return nil
}

var _ store.Store = (*Store)(nil)
