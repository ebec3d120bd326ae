// Package sqlite is the authoritative Store backed by a local sqlite
// database. All multi-record mutations run inside a single sql.Tx; sqlite
// holds the database write lock for the duration, so balance
// read-modify-write cannot interleave with another writer.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	// sqlite driver registration.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Store implements store.Store on top of a sqlite database.
type Store struct {
	db *sql.DB
}

// Opt configures a Store.
type Opt func(*Store)

// WithDB sets an explicit db instance, mainly for tests.
func WithDB(db *sql.DB) Opt {
	return func(s *Store) { s.db = db }
}

// Open opens (or creates) the database at path.
func Open(path string, opts ...Opt) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite db %s: %w", path, err)
		}
		s.db = db
	}
	return s, nil
}

// Setup creates the schema if it does not exist yet.
func (s *Store) Setup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS accounts(
	id          TEXT NOT NULL PRIMARY KEY,
	code        TEXT NOT NULL COLLATE NOCASE UNIQUE,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	parent_id   TEXT NOT NULL DEFAULT '',
	balance     TEXT NOT NULL,
	status      TEXT NOT NULL,
	imported    INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions(
	id                TEXT NOT NULL PRIMARY KEY,
	date              TIMESTAMP NOT NULL,
	type              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	debit_account_id  TEXT NOT NULL,
	credit_account_id TEXT NOT NULL,
	amount            TEXT NOT NULL,
	status            TEXT NOT NULL,
	reference         TEXT NOT NULL DEFAULT '',
	notes             TEXT NOT NULL DEFAULT '',
	created_by        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_debit ON transactions(debit_account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_credit ON transactions(credit_account_id);
`)
	if err != nil {
		return fmt.Errorf("setting up schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const accountCols = "id, code, name, type, parent_id, balance, status, imported, description, created_at"

func (s *Store) CreateAccount(ctx context.Context, acct model.Account) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts(`+accountCols+`)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		acct.ID, acct.Code, acct.Name, string(acct.Type), acct.ParentID,
		acct.Balance.String(), string(acct.Status), acct.Imported, acct.Description, acct.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", acct.Code, err)
	}
	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accts []model.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, acct := range accts {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts(`+accountCols+`)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			acct.ID, acct.Code, acct.Name, string(acct.Type), acct.ParentID,
			acct.Balance.String(), string(acct.Status), acct.Imported, acct.Description, acct.CreatedAt); err != nil {
			return fmt.Errorf("inserting account %s: %w", acct.Code, err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpdateAccount(ctx context.Context, acct model.Account) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE accounts
	SET code=$2, name=$3, type=$4, parent_id=$5, balance=$6, status=$7, imported=$8, description=$9
	WHERE id=$1`,
		acct.ID, acct.Code, acct.Name, string(acct.Type), acct.ParentID,
		acct.Balance.String(), string(acct.Status), acct.Imported, acct.Description)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", acct.ID, err)
	}
	return checkAffected(res)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("deleting account %s: %w", id, err)
	}
	return checkAffected(res)
}

func (s *Store) GetAccount(ctx context.Context, id string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM accounts WHERE id=$1`, id)
	return scanAccount(row)
}

func (s *Store) GetAccountByCode(ctx context.Context, code string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM accounts WHERE code=$1 COLLATE NOCASE`, code)
	return scanAccount(row)
}

func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountCols+` FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accts = append(accts, acct)
	}
	return accts, rows.Err()
}

func (s *Store) AccountHasTransactions(ctx context.Context, accountID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1 FROM transactions
	WHERE debit_account_id=$1 OR credit_account_id=$1
	LIMIT 1`, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking transactions for account %s: %w", accountID, err)
	}
	return true, nil
}

const txnCols = "id, date, type, description, debit_account_id, credit_account_id, amount, status, reference, notes, created_by, created_at"

func (s *Store) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=$1`, id)
	return scanTransaction(row)
}

func (s *Store) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `SELECT `+txnCols+` FROM transactions ORDER BY rowid`)
}

func (s *Store) ListAccountTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `
	SELECT `+txnCols+` FROM transactions
	WHERE debit_account_id=$1 OR credit_account_id=$1
	ORDER BY rowid`, accountID)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// SavePosting inserts the transaction record and applies both balance
// deltas inside one tx.
func (s *Store) SavePosting(ctx context.Context, txn model.Transaction, deltas []store.BalanceDelta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO transactions(`+txnCols+`)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		txn.ID, txn.Date, string(txn.Type), txn.Description,
		txn.DebitAccountID, txn.CreditAccountID, txn.Amount.String(),
		string(txn.Status), txn.Reference, txn.Notes, txn.CreatedBy, txn.CreatedAt); err != nil {
		return fmt.Errorf("inserting transaction %s: %w", txn.ID, err)
	}

	if err := applyDeltas(ctx, tx, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

// VoidTransaction flips the status to void and applies the reversal deltas
// inside one tx.
func (s *Store) VoidTransaction(ctx context.Context, id string, deltas []store.BalanceDelta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `UPDATE transactions SET status=$2 WHERE id=$1`, id, string(model.StatusVoid))
	if err != nil {
		return fmt.Errorf("voiding transaction %s: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}

	if err := applyDeltas(ctx, tx, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

// applyDeltas adjusts balances within an open write tx. Balances are stored
// as decimal strings, so the adjustment is computed in Go; the surrounding
// tx serializes against other writers.
func applyDeltas(ctx context.Context, tx *sql.Tx, deltas []store.BalanceDelta) error {
	for _, d := range deltas {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id=$1`, d.AccountID).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("account %s: %w", d.AccountID, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("reading balance for %s: %w", d.AccountID, err)
		}
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("parsing balance %q for %s: %w", raw, d.AccountID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance=$2 WHERE id=$1`,
			d.AccountID, balance.Add(d.Delta).String()); err != nil {
			return fmt.Errorf("updating balance for %s: %w", d.AccountID, err)
		}
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAccount(row scannable) (model.Account, error) {
	var (
		acct      model.Account
		acctType  string
		status    string
		balance   string
		createdAt time.Time
	)
	err := row.Scan(&acct.ID, &acct.Code, &acct.Name, &acctType, &acct.ParentID,
		&balance, &status, &acct.Imported, &acct.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, store.ErrNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("scanning account: %w", err)
	}
	acct.Type = model.AccountType(acctType)
	acct.Status = model.AccountStatus(status)
	acct.CreatedAt = createdAt
	acct.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	return acct, nil
}

func scanTransaction(row scannable) (model.Transaction, error) {
	var (
		txn     model.Transaction
		txnType string
		status  string
		amount  string
	)
	err := row.Scan(&txn.ID, &txn.Date, &txnType, &txn.Description,
		&txn.DebitAccountID, &txn.CreditAccountID, &amount,
		&status, &txn.Reference, &txn.Notes, &txn.CreatedBy, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scanning transaction: %w", err)
	}
	txn.Type = model.TransactionType(txnType)
	txn.Status = model.TransactionStatus(status)
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return txn, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*Store)(nil)
