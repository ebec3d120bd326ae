// Package posting applies two-leg transactions to account balances under
// the double-entry rules.
package posting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/events"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Posting errors surfaced to callers.
var (
	ErrSameAccount       = errors.New("debit and credit accounts must differ")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrNotVoidable       = errors.New("transaction is not voidable")
	ErrAlreadyVoid       = errors.New("transaction is already void")
)

// Service posts and voids transactions. Balance updates for the same
// account serialize through a per-account lock, acquired in id order to
// avoid deadlocks between concurrent postings.
type Service struct {
	store store.Store
	pub   events.Publisher
	log   logrus.FieldLogger

	mu    sync.Mutex // protects locks
	locks map[string]*sync.Mutex
}

// Opt configures a Service.
type Opt func(*Service)

// WithPublisher sets the change-notification publisher.
func WithPublisher(pub events.Publisher) Opt {
	return func(s *Service) { s.pub = pub }
}

// WithLogger sets the service logger.
func WithLogger(log logrus.FieldLogger) Opt {
	return func(s *Service) { s.log = log }
}

// NewService creates a posting Service.
func NewService(st store.Store, opts ...Opt) *Service {
	s := &Service{
		store: st,
		pub:   events.NopPublisher{},
		log:   logrus.StandardLogger(),
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostParams describes a proposed transaction.
type PostParams struct {
	Date            time.Time // zero means now
	Type            model.TransactionType
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Reference       string
	Notes           string
	CreatedBy       string
}

// Post validates the proposed transaction, applies the polarity rule to
// both account balances and persists everything as one atomic unit. The
// transaction is created directly in posted status; balances are touched
// exactly once, here.
func (s *Service) Post(ctx context.Context, params PostParams) (model.Transaction, error) {
	if params.DebitAccountID == params.CreditAccountID {
		return model.Transaction{}, ErrSameAccount
	}
	if !params.Amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("amount %s: %w", params.Amount, ErrNonPositiveAmount)
	}

	first, second := s.accountLocks(params.DebitAccountID, params.CreditAccountID)
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	debitAcct, err := s.store.GetAccount(ctx, params.DebitAccountID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("debit account %s: %w", params.DebitAccountID, err)
	}
	creditAcct, err := s.store.GetAccount(ctx, params.CreditAccountID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("credit account %s: %w", params.CreditAccountID, err)
	}
	if !debitAcct.Active() {
		return model.Transaction{}, fmt.Errorf("debit account %s: %w", debitAcct.Code, ErrAccountInactive)
	}
	if !creditAcct.Active() {
		return model.Transaction{}, fmt.Errorf("credit account %s: %w", creditAcct.Code, ErrAccountInactive)
	}

	date := params.Date
	if date.IsZero() {
		date = time.Now()
	}
	txnType := params.Type
	if txnType == "" {
		txnType = model.TxnAdjustment
	}

	txn := model.Transaction{
		ID:              uuid.NewString(),
		Date:            date,
		Type:            txnType,
		Description:     params.Description,
		DebitAccountID:  params.DebitAccountID,
		CreditAccountID: params.CreditAccountID,
		Amount:          params.Amount,
		Status:          model.StatusPosted,
		Reference:       params.Reference,
		Notes:           params.Notes,
		CreatedBy:       params.CreatedBy,
		CreatedAt:       time.Now(),
	}

	deltas := postingDeltas(txn, debitAcct.Type, creditAcct.Type)
	if err := s.store.SavePosting(ctx, txn, deltas); err != nil {
		return model.Transaction{}, fmt.Errorf("saving posting: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"txn": txn.ID, "debit": debitAcct.Code, "credit": creditAcct.Code, "amount": txn.Amount,
	}).Info("transaction posted")
	s.publish(ctx, events.KindTransactionPosted, txn)
	return txn, nil
}

// Void reverses a posted transaction's balance effect on both legs and
// marks it void, atomically. Only posted or reconciled transactions can be
// voided.
func (s *Service) Void(ctx context.Context, id string) (model.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("loading transaction %s: %w", id, err)
	}
	switch txn.Status {
	case model.StatusVoid:
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrAlreadyVoid)
	case model.StatusPosted, model.StatusReconciled:
	default:
		return model.Transaction{}, fmt.Errorf("transaction %s is %s: %w", id, txn.Status, ErrNotVoidable)
	}

	first, second := s.accountLocks(txn.DebitAccountID, txn.CreditAccountID)
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	debitAcct, err := s.store.GetAccount(ctx, txn.DebitAccountID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("debit account %s: %w", txn.DebitAccountID, err)
	}
	creditAcct, err := s.store.GetAccount(ctx, txn.CreditAccountID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("credit account %s: %w", txn.CreditAccountID, err)
	}

	// Inverse of the original effect, computed against the accounts'
	// current types.
	deltas := postingDeltas(txn, debitAcct.Type, creditAcct.Type)
	for i := range deltas {
		deltas[i].Delta = deltas[i].Delta.Neg()
	}
	if err := s.store.VoidTransaction(ctx, id, deltas); err != nil {
		return model.Transaction{}, fmt.Errorf("voiding transaction %s: %w", id, err)
	}
	txn.Status = model.StatusVoid

	s.log.WithFields(logrus.Fields{"txn": id, "amount": txn.Amount}).Info("transaction voided")
	s.publish(ctx, events.KindTransactionVoided, txn)
	return txn, nil
}

// postingDeltas computes the signed balance effect of txn on each leg: the
// account on the leg matching its normal side gains the amount, the other
// account loses it.
func postingDeltas(txn model.Transaction, debitType, creditType model.AccountType) []store.BalanceDelta {
	debitDelta := txn.Amount
	if debitType.NormalSide() != model.SideDebit {
		debitDelta = debitDelta.Neg()
	}
	creditDelta := txn.Amount
	if creditType.NormalSide() != model.SideCredit {
		creditDelta = creditDelta.Neg()
	}
	return []store.BalanceDelta{
		{AccountID: txn.DebitAccountID, Delta: debitDelta},
		{AccountID: txn.CreditAccountID, Delta: creditDelta},
	}
}

// accountLocks returns the two account mutexes ordered by id.
func (s *Service) accountLocks(a, b string) (*sync.Mutex, *sync.Mutex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	la, lb := s.lockFor(a), s.lockFor(b)
	if a < b {
		return la, lb
	}
	return lb, la
}

func (s *Service) lockFor(id string) *sync.Mutex {
	if _, ok := s.locks[id]; !ok {
		s.locks[id] = &sync.Mutex{}
	}
	return s.locks[id]
}

func (s *Service) publish(ctx context.Context, kind string, txn model.Transaction) {
	event := events.Event{Kind: kind, Transaction: txn, OccurredAt: time.Now()}
	if err := s.pub.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("txn", txn.ID).Warn("publishing ledger event failed")
	}
}
