package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgercore/ledger-api/internal/domain"
)

// ListCap bounds list endpoints. There is no pagination cursor in this
// version; callers get at most this many records per request.
const ListCap = 1000

type Store struct {
	Db *pgxpool.Pool
}

func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Db: pool}, nil
}

func (s *Store) Close() {
	s.Db.Close()
}

// AccountExists reports whether any account matches the email exactly.
// Absence is a normal false, never an error.
func (s *Store) AccountExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.Db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return exists, nil
}

// GetAccount retrieves a single account by email.
func (s *Store) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := s.Db.QueryRow(ctx,
		`SELECT email, first_name, last_name, country, dob, mfa, created_at, updated_at, referred_by
		 FROM accounts WHERE email = $1`, email).
		Scan(&a.Email, &a.FirstName, &a.LastName, &a.Country, &a.DOB, &a.MFA,
			&a.CreatedAt, &a.UpdatedAt, &a.ReferredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account query failed: %w", err)
	}
	return &a, nil
}

// ListAccounts returns up to ListCap accounts.
func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT email, first_name, last_name, country, dob, mfa, created_at, updated_at, referred_by
		 FROM accounts LIMIT $1`, ListCap)
	if err != nil {
		return nil, fmt.Errorf("account list query failed: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Email, &a.FirstName, &a.LastName, &a.Country, &a.DOB,
			&a.MFA, &a.CreatedAt, &a.UpdatedAt, &a.ReferredBy); err != nil {
			return nil, fmt.Errorf("account scan failed: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListTransactions returns up to ListCap transactions.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, user_email, amount, type, created_at FROM transactions LIMIT $1", ListCap)
	if err != nil {
		return nil, fmt.Errorf("transaction list query failed: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserEmail, &t.Amount, &t.Type, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("transaction scan failed: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SumAmountsByType aggregates an account's transactions in a single pass:
// one grouped scan rather than one query per type.
func (s *Store) SumAmountsByType(ctx context.Context, email string) (map[domain.TransactionType]int64, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT type, SUM(amount) FROM transactions WHERE user_email = $1 GROUP BY type", email)
	if err != nil {
		return nil, fmt.Errorf("aggregation query failed: %w", err)
	}
	defer rows.Close()

	sums := make(map[domain.TransactionType]int64, 4)
	for rows.Next() {
		var t domain.TransactionType
		var sum int64
		if err := rows.Scan(&t, &sum); err != nil {
			return nil, fmt.Errorf("aggregation scan failed: %w", err)
		}
		sums[t] = sum
	}
	return sums, rows.Err()
}

// InsertTransaction persists exactly one transaction record. CreatedAt is
// stored verbatim; the store never stamps server time.
func (s *Store) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO transactions (id, user_email, amount, type, created_at) VALUES ($1, $2, $3, $4, $5)",
		t.ID, t.UserEmail, t.Amount, t.Type, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("transaction insert failed: %w", err)
	}
	return nil
}

// InsertTransactionPair persists both legs of a transfer inside one
// database transaction: either both rows are visible to subsequent
// balance reads or neither is. Context cancellation aborts the whole
// unit via the deferred rollback.
func (s *Store) InsertTransactionPair(ctx context.Context, from, to *domain.Transaction) error {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO transactions (id, user_email, amount, type, created_at) VALUES ($1, $2, $3, $4, $5)",
		from.ID, from.UserEmail, from.Amount, from.Type, from.CreatedAt)
	if err != nil {
		return fmt.Errorf("from-side insert failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO transactions (id, user_email, amount, type, created_at) VALUES ($1, $2, $3, $4, $5)",
		to.ID, to.UserEmail, to.Amount, to.Type, to.CreatedAt)
	if err != nil {
		return fmt.Errorf("to-side insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}
