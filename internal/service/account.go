package service

import (
	"context"
	"fmt"

	"github.com/ledgercore/ledger-api/internal/domain"
)

// Ledger is the persistence surface the services run against. The pgx
// store implements it in production; tests substitute an in-memory fake.
type Ledger interface {
	AccountExists(ctx context.Context, email string) (bool, error)
	GetAccount(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	SumAmountsByType(ctx context.Context, email string) (map[domain.TransactionType]int64, error)
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	InsertTransactionPair(ctx context.Context, from, to *domain.Transaction) error
}

// AccountService answers account lookups and balance queries. It holds no
// state beyond the storage handle; every call reflects current persisted
// state (no caching).
type AccountService struct {
	ledger Ledger
}

func NewAccountService(ledger Ledger) *AccountService {
	return &AccountService{ledger: ledger}
}

// AccountExists reports whether the email matches an account. Absence is
// a boolean outcome, not an error.
func (s *AccountService) AccountExists(ctx context.Context, email string) (bool, error) {
	return s.ledger.AccountExists(ctx, email)
}

// GetAccount fetches full account detail, returning
// domain.ErrAccountNotFound when no account matches.
func (s *AccountService) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	return s.ledger.GetAccount(ctx, email)
}

// ListAccounts returns the stored accounts, capped by the store.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.ledger.ListAccounts(ctx)
}

// GetBalance derives the signed balance for an email from its transaction
// history: receive and credit add, send and debit subtract. There is
// deliberately no existence check: an email with no transactions yields
// 0, keeping balance reads side-effect-free and idempotent. Integer
// arithmetic throughout; the result is exact and order-independent.
func (s *AccountService) GetBalance(ctx context.Context, email string) (int64, error) {
	sums, err := s.ledger.SumAmountsByType(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("balance aggregation failed: %w", err)
	}

	var balance int64
	for t, sum := range sums {
		balance += t.Sign() * sum
	}
	return balance, nil
}
