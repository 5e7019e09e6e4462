package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
)

// Transaction is an append-only ledger record. Rows are never updated or
// deleted once written.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	CreatedAt time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	ListTransactions(userID uuid.UUID) ([]Transaction, error)
	ListTransactionsByKind(userID uuid.UUID, kind TransactionKind) ([]Transaction, error)
	// MonthlyWithdrawalTotal returns the sum of withdrawal amounts (fees
	// excluded) for the user within the calendar month containing at.
	MonthlyWithdrawalTotal(userID uuid.UUID, at time.Time) (decimal.Decimal, error)
}
