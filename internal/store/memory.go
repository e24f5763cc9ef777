package store

import (
	"context"
	"sync"

	"github.com/ledgercore/ledger-api/internal/domain"
)

// MemoryStore is an in-memory implementation of the service-layer Ledger
// interface, interchangeable with the Postgres store. Used by tests and
// useful for local development without a database.
type MemoryStore struct {
	mutex        sync.RWMutex
	accounts     map[string]domain.Account
	transactions []domain.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]domain.Account),
	}
}

// AddAccount registers an account. Accounts are created outside the core,
// so this is test/seed plumbing rather than an API surface.
func (s *MemoryStore) AddAccount(a domain.Account) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.accounts[a.Email] = a
}

func (s *MemoryStore) AccountExists(ctx context.Context, email string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, exists := s.accounts[email]
	return exists, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	a, exists := s.accounts[email]
	if !exists {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (s *MemoryStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if len(accounts) == ListCap {
			break
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n := len(s.transactions)
	if n > ListCap {
		n = ListCap
	}
	transactions := make([]domain.Transaction, n)
	copy(transactions, s.transactions[:n])
	return transactions, nil
}

func (s *MemoryStore) SumAmountsByType(ctx context.Context, email string) (map[domain.TransactionType]int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	sums := make(map[domain.TransactionType]int64, 4)
	for _, t := range s.transactions {
		if t.UserEmail == email {
			sums[t.Type] += t.Amount
		}
	}
	return sums, nil
}

func (s *MemoryStore) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.transactions = append(s.transactions, *t)
	return nil
}

// InsertTransactionPair appends both legs under one lock acquisition, so
// no reader observes one leg without the other.
func (s *MemoryStore) InsertTransactionPair(ctx context.Context, from, to *domain.Transaction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.transactions = append(s.transactions, *from, *to)
	return nil
}

// TransactionCount reports the number of persisted transactions.
func (s *MemoryStore) TransactionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.transactions)
}
