package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, kind, amount, fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// The service stamps CreatedAt from its injected clock; fall back to the
	// wall clock for callers that did not.
	now := tx.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}

	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.UserID,
		string(tx.Kind),
		tx.Amount.String(),
		tx.Fee.String(),
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"user_id", tx.UserID,
			"kind", tx.Kind,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction recorded", "transaction_id", tx.ID, "kind", tx.Kind)
	return nil
}

func (r *transactionRepository) ListTransactions(userID uuid.UUID) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, kind, amount, fee, created_at
		FROM transactions WHERE user_id = $1
		ORDER BY created_at
	`

	return r.queryTransactions(query, userID)
}

func (r *transactionRepository) ListTransactionsByKind(userID uuid.UUID, kind domain.TransactionKind) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, kind, amount, fee, created_at
		FROM transactions WHERE user_id = $1 AND kind = $2
		ORDER BY created_at
	`

	return r.queryTransactions(query, userID, string(kind))
}

// MonthlyWithdrawalTotal sums withdrawal principal (fees excluded) within the
// calendar month containing at. When called through a store transaction it
// shares the serialization boundary of the balance mutation it gates.
func (r *transactionRepository) MonthlyWithdrawalTotal(userID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND kind = $2 AND created_at >= $3 AND created_at < $4
	`

	var totalStr string
	err := r.db.QueryRow(query, userID, string(domain.TransactionKindWithdrawal), monthStart, monthEnd).Scan(&totalStr)
	if err != nil {
		r.logger.Error("Failed to sum monthly withdrawals", "user_id", userID, "error", err)
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to sum monthly withdrawals").WithDetails(err.Error())
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to parse withdrawal total").WithDetails(err.Error())
	}

	return total, nil
}

func (r *transactionRepository) queryTransactions(query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var kind, amountStr, feeStr string

		if err := rows.Scan(&tx.ID, &tx.UserID, &kind, &amountStr, &feeStr, &tx.CreatedAt); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}
		fee, err := decimal.NewFromString(feeStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse fee").WithDetails(err.Error())
		}

		tx.Kind = domain.TransactionKind(kind)
		tx.Amount = amount
		tx.Fee = fee
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to read transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
