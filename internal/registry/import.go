package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/model"
)

// ImportRow is one parsed row fed to BulkImport. Code, Name and Type are
// required; the rest are optional.
type ImportRow struct {
	Code        string
	Name        string
	Type        string
	ParentCode  string
	Description string
	Balance     string
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int
	Skipped  []string // codes skipped as duplicates or unusable
}

// BulkImport creates accounts from rows in a single atomic unit. Rows whose
// code already exists (case-insensitively) in the chart or earlier in the
// batch are skipped, not errored. Parent codes resolve against existing
// accounts and rows imported earlier in the batch; an unresolved parent
// code yields a top-level account. Every imported account is marked
// Imported and can never be deleted.
func (s *Service) BulkImport(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	existing, err := s.store.ListAccounts(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("listing accounts: %w", err)
	}

	idByCode := make(map[string]string, len(existing))
	for _, a := range existing {
		idByCode[strings.ToLower(a.Code)] = a.ID
	}

	var result ImportResult
	var accts []model.Account
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		key := strings.ToLower(code)
		if code == "" || strings.TrimSpace(row.Name) == "" {
			result.Skipped = append(result.Skipped, code)
			continue
		}
		if _, dup := idByCode[key]; dup {
			result.Skipped = append(result.Skipped, code)
			continue
		}
		acctType := model.AccountType(strings.ToLower(strings.TrimSpace(row.Type)))
		if !acctType.Valid() {
			acctType = normalizeType(row.Type)
		}
		if !acctType.Valid() {
			result.Skipped = append(result.Skipped, code)
			continue
		}

		balance := decimal.Zero
		if strings.TrimSpace(row.Balance) != "" {
			balance, err = decimal.NewFromString(strings.TrimSpace(row.Balance))
			if err != nil {
				result.Skipped = append(result.Skipped, code)
				continue
			}
		}

		parentID := ""
		if pc := strings.TrimSpace(row.ParentCode); pc != "" {
			parentID = idByCode[strings.ToLower(pc)] // unresolved stays top-level
		}

		acct := model.Account{
			ID:          uuid.NewString(),
			Code:        code,
			Name:        strings.TrimSpace(row.Name),
			Type:        acctType,
			ParentID:    parentID,
			Balance:     balance,
			Status:      model.AccountActive,
			Imported:    true,
			Description: row.Description,
			CreatedAt:   time.Now(),
		}
		accts = append(accts, acct)
		idByCode[key] = acct.ID
		result.Imported++
	}

	if len(accts) > 0 {
		if err := s.store.CreateAccounts(ctx, accts); err != nil {
			return ImportResult{}, fmt.Errorf("importing accounts: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"imported": result.Imported, "skipped": len(result.Skipped),
	}).Info("bulk import finished")
	return result, nil
}

// normalizeType maps spreadsheet spellings like "Assets" or "Expenses" onto
// the closed account-type enum.
func normalizeType(raw string) model.AccountType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asset", "assets":
		return model.AccountTypeAsset
	case "liability", "liabilities":
		return model.AccountTypeLiability
	case "equity":
		return model.AccountTypeEquity
	case "revenue", "income":
		return model.AccountTypeRevenue
	case "expense", "expenses":
		return model.AccountTypeExpense
	default:
		return ""
	}
}
