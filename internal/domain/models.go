package domain

import "time"

// TransactionType is the kind of ledger movement. The set is closed:
// anything outside the four values below is rejected before persistence.
type TransactionType string

const (
	TypeSend    TransactionType = "send"
	TypeReceive TransactionType = "receive"
	TypeCredit  TransactionType = "credit"
	TypeDebit   TransactionType = "debit"
)

// ParseTransactionType validates a wire-level type string against the
// closed set.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypeSend, TypeReceive, TypeCredit, TypeDebit:
		return t, nil
	}
	return "", ErrInvalidTransactionType
}

// Sign returns +1 for types that increase a balance (receive, credit)
// and -1 for types that decrease it (send, debit).
func (t TransactionType) Sign() int64 {
	switch t {
	case TypeReceive, TypeCredit:
		return 1
	default:
		return -1
	}
}

// Account is a user record keyed by email. Accounts are created outside
// this service and are read-only here.
type Account struct {
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Country    string    `json:"country"`
	DOB        string    `json:"dob"`
	MFA        *string   `json:"mfa"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ReferredBy *string   `json:"referredBy"`
}

// Transaction is a single signed ledger movement. Transactions are
// append-only: once persisted they are never updated or deleted.
// CreatedAt is supplied by the caller so backfilled history keeps its
// original timestamps.
type Transaction struct {
	ID        string          `json:"id"`
	UserEmail string          `json:"userEmail"`
	Amount    int64           `json:"amount"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the preconditions for persisting a transaction, in
// order: type first, then amount. First failure wins.
func (t *Transaction) Validate() error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if t.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

// TransferRequest is the payload for a two-sided transfer. It is never
// persisted itself; it materializes into a send transaction for FromEmail
// and a receive transaction for ToEmail, both carrying the same amount
// and timestamp.
type TransferRequest struct {
	FromEmail string    `json:"fromEmail"`
	ToEmail   string    `json:"toEmail"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
