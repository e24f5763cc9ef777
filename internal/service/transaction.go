package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgercore/ledger-api/internal/domain"
)

// TransactionService validates and persists ledger movements.
type TransactionService struct {
	ledger Ledger
}

func NewTransactionService(ledger Ledger) *TransactionService {
	return &TransactionService{ledger: ledger}
}

// CreateTransaction validates and persists a single transaction, returning
// its generated identifier. Preconditions run in order, first failure
// wins: type, then amount, then account existence. Nothing is written
// until all three pass.
func (s *TransactionService) CreateTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	exists, err := s.ledger.AccountExists(ctx, t.UserEmail)
	if err != nil {
		return "", fmt.Errorf("account check failed: %w", err)
	}
	if !exists {
		return "", domain.UnknownAccountError("userEmail", t.UserEmail)
	}

	t.ID = uuid.NewString()
	if err := s.ledger.InsertTransaction(ctx, &t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// ListTransactions returns the stored transactions, capped by the store.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.ledger.ListTransactions(ctx)
}

// CreateTransfer materializes a transfer into its two legs (a send
// attributed to fromEmail and a receive attributed to toEmail, same
// amount and timestamp) and persists them as one atomic unit. Returns
// the generated identifiers in [from-side, to-side] order. A transfer
// where either account is unknown persists nothing.
//
// fromEmail and toEmail may be equal: a self-transfer posts both legs to
// the same account and nets to zero.
func (s *TransactionService) CreateTransfer(ctx context.Context, fromEmail, toEmail string, amount int64, createdAt time.Time) ([2]string, error) {
	var ids [2]string

	if amount < 1 {
		return ids, domain.ErrInvalidAmount
	}

	exists, err := s.ledger.AccountExists(ctx, fromEmail)
	if err != nil {
		return ids, fmt.Errorf("account check failed: %w", err)
	}
	if !exists {
		return ids, domain.UnknownAccountError("from", fromEmail)
	}

	exists, err = s.ledger.AccountExists(ctx, toEmail)
	if err != nil {
		return ids, fmt.Errorf("account check failed: %w", err)
	}
	if !exists {
		return ids, domain.UnknownAccountError("to", toEmail)
	}

	from := domain.Transaction{
		ID:        uuid.NewString(),
		UserEmail: fromEmail,
		Amount:    amount,
		Type:      domain.TypeSend,
		CreatedAt: createdAt,
	}
	to := domain.Transaction{
		ID:        uuid.NewString(),
		UserEmail: toEmail,
		Amount:    amount,
		Type:      domain.TypeReceive,
		CreatedAt: createdAt,
	}

	if err := s.ledger.InsertTransactionPair(ctx, &from, &to); err != nil {
		return ids, err
	}

	ids[0], ids[1] = from.ID, to.ID
	return ids, nil
}
