// Package registry manages the chart of accounts: creation, mutation,
// deletion guards and bulk import.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Integrity and validation errors surfaced to callers.
var (
	ErrDuplicateCode   = errors.New("duplicate account code")
	ErrCyclicParent    = errors.New("cyclic parent assignment")
	ErrParentType      = errors.New("parent account type mismatch")
	ErrInvalidType     = errors.New("invalid account type")
	ErrImported        = errors.New("imported accounts cannot be deleted")
	ErrHasTransactions = errors.New("account is referenced by transactions")
)

// maxParentDepth bounds parent-chain walks so malformed data cannot loop.
const maxParentDepth = 100

// Service provides chart-of-accounts operations over a store.
type Service struct {
	store store.Store
	log   logrus.FieldLogger
}

// Opt configures a Service.
type Opt func(*Service)

// WithLogger sets the service logger.
func WithLogger(log logrus.FieldLogger) Opt {
	return func(s *Service) { s.log = log }
}

// NewService creates a registry Service.
func NewService(st store.Store, opts ...Opt) *Service {
	s := &Service{store: st, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams holds the fields for a new account.
type CreateParams struct {
	Code        string
	Name        string
	Type        model.AccountType
	ParentID    string
	Balance     decimal.Decimal
	Description string
}

// Create adds a new active account to the chart.
func (s *Service) Create(ctx context.Context, params CreateParams) (model.Account, error) {
	if strings.TrimSpace(params.Code) == "" {
		return model.Account{}, fmt.Errorf("account code is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return model.Account{}, fmt.Errorf("account name is required")
	}
	if !params.Type.Valid() {
		return model.Account{}, fmt.Errorf("account type %q: %w", params.Type, ErrInvalidType)
	}

	if _, err := s.store.GetAccountByCode(ctx, params.Code); err == nil {
		return model.Account{}, fmt.Errorf("code %q: %w", params.Code, ErrDuplicateCode)
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Account{}, fmt.Errorf("checking code %q: %w", params.Code, err)
	}

	if params.ParentID != "" {
		parent, err := s.store.GetAccount(ctx, params.ParentID)
		if err != nil {
			return model.Account{}, fmt.Errorf("resolving parent %s: %w", params.ParentID, err)
		}
		if parent.Type != params.Type {
			return model.Account{}, fmt.Errorf("parent %s is %s: %w", parent.Code, parent.Type, ErrParentType)
		}
		// The new account has no id yet, so it cannot appear in the chain;
		// the walk still guards against pre-existing malformed data.
		if _, err := s.walkParents(ctx, params.ParentID); err != nil {
			return model.Account{}, err
		}
	}

	acct := model.Account{
		ID:          uuid.NewString(),
		Code:        params.Code,
		Name:        params.Name,
		Type:        params.Type,
		ParentID:    params.ParentID,
		Balance:     params.Balance,
		Status:      model.AccountActive,
		Description: params.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		return model.Account{}, fmt.Errorf("creating account %s: %w", acct.Code, err)
	}

	s.log.WithFields(logrus.Fields{"code": acct.Code, "type": acct.Type}).Info("account created")
	return acct, nil
}

// UpdateParams holds optional account mutations; nil fields are unchanged.
type UpdateParams struct {
	Code        *string
	Name        *string
	Type        *model.AccountType
	ParentID    *string
	Status      *model.AccountStatus
	Description *string
}

// Update applies the given fields to an existing account. Changing the type
// of an account that already has postings flips the polarity used by future
// postings; it is permitted but logged as a correctness risk.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (model.Account, error) {
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %s: %w", id, err)
	}

	if params.Code != nil && !strings.EqualFold(*params.Code, acct.Code) {
		if _, err := s.store.GetAccountByCode(ctx, *params.Code); err == nil {
			return model.Account{}, fmt.Errorf("code %q: %w", *params.Code, ErrDuplicateCode)
		} else if !errors.Is(err, store.ErrNotFound) {
			return model.Account{}, fmt.Errorf("checking code %q: %w", *params.Code, err)
		}
		acct.Code = *params.Code
	}
	if params.Name != nil {
		acct.Name = *params.Name
	}
	if params.Type != nil && *params.Type != acct.Type {
		if !params.Type.Valid() {
			return model.Account{}, fmt.Errorf("account type %q: %w", *params.Type, ErrInvalidType)
		}
		posted, err := s.store.AccountHasTransactions(ctx, id)
		if err != nil {
			return model.Account{}, fmt.Errorf("checking transactions for %s: %w", id, err)
		}
		if posted {
			s.log.WithFields(logrus.Fields{
				"code": acct.Code, "from": acct.Type, "to": *params.Type,
			}).Warn("type change on account with postings; future postings switch polarity")
		}
		acct.Type = *params.Type
	}
	if params.ParentID != nil && *params.ParentID != acct.ParentID {
		if *params.ParentID != "" {
			if *params.ParentID == id {
				return model.Account{}, fmt.Errorf("account %s: %w", acct.Code, ErrCyclicParent)
			}
			if _, err := s.store.GetAccount(ctx, *params.ParentID); err != nil {
				return model.Account{}, fmt.Errorf("resolving parent %s: %w", *params.ParentID, err)
			}
			chain, err := s.walkParents(ctx, *params.ParentID)
			if err != nil {
				return model.Account{}, err
			}
			for _, ancestor := range chain {
				if ancestor == id {
					return model.Account{}, fmt.Errorf("account %s: %w", acct.Code, ErrCyclicParent)
				}
			}
		}
		acct.ParentID = *params.ParentID
	}
	if params.Status != nil {
		acct.Status = *params.Status
	}
	if params.Description != nil {
		acct.Description = *params.Description
	}

	if err := s.store.UpdateAccount(ctx, acct); err != nil {
		return model.Account{}, fmt.Errorf("updating account %s: %w", id, err)
	}
	return acct, nil
}

// Delete removes an account. Imported accounts are permanent, and accounts
// referenced by any transaction leg cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("loading account %s: %w", id, err)
	}
	if acct.Imported {
		return fmt.Errorf("account %s: %w", acct.Code, ErrImported)
	}
	referenced, err := s.store.AccountHasTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("checking transactions for %s: %w", id, err)
	}
	if referenced {
		return fmt.Errorf("account %s: %w", acct.Code, ErrHasTransactions)
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("deleting account %s: %w", id, err)
	}

	s.log.WithField("code", acct.Code).Info("account deleted")
	return nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// GetByCode returns an account by code, case-insensitively.
func (s *Service) GetByCode(ctx context.Context, code string) (model.Account, error) {
	return s.store.GetAccountByCode(ctx, code)
}

// All returns every account in the chart.
func (s *Service) All(ctx context.Context) ([]model.Account, error) {
	return s.store.ListAccounts(ctx)
}

// walkParents follows the parent chain upward from startID, returning the
// ids visited. The walk is depth bounded and fails on a revisit, so it
// terminates even on malformed data.
func (s *Service) walkParents(ctx context.Context, startID string) ([]string, error) {
	visited := map[string]bool{}
	var chain []string
	current := startID
	for depth := 0; current != ""; depth++ {
		if depth >= maxParentDepth {
			return nil, fmt.Errorf("parent chain from %s exceeds %d levels: %w", startID, maxParentDepth, ErrCyclicParent)
		}
		if visited[current] {
			return nil, fmt.Errorf("parent chain from %s revisits %s: %w", startID, current, ErrCyclicParent)
		}
		visited[current] = true
		chain = append(chain, current)

		acct, err := s.store.GetAccount(ctx, current)
		if errors.Is(err, store.ErrNotFound) {
			break // dangling parent reference terminates the chain
		}
		if err != nil {
			return nil, fmt.Errorf("walking parents from %s: %w", startID, err)
		}
		current = acct.ParentID
	}
	return chain, nil
}
