package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
)

// LedgerService applies deposits and withdrawals to user balances and records
// the matching transaction, both inside a single store transaction.
type LedgerService struct {
	store  domain.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewLedgerService(store domain.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Statement is the account overview returned for an authenticated user.
type Statement struct {
	Balance      decimal.Decimal      `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

func (s *LedgerService) Deposit(userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	s.logger.Info("Processing deposit", "user_id", userID, "amount", amount)

	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	transaction := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.TransactionKindDeposit,
		Amount:    amount,
		Fee:       decimal.Zero,
		CreatedAt: s.now(),
	}

	err := s.store.WithTransaction(func(tx domain.Store) error {
		user, err := tx.User().GetUserForUpdate(userID)
		if err != nil {
			return err
		}

		if err := tx.User().UpdateUserBalance(userID, user.Balance.Add(amount)); err != nil {
			return err
		}

		return tx.Transaction().CreateTransaction(transaction)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed", "transaction_id", transaction.ID)
	return transaction, nil
}

func (s *LedgerService) Withdraw(userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	s.logger.Info("Processing withdrawal", "user_id", userID, "amount", amount)

	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	now := s.now()
	transaction := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.TransactionKindWithdrawal,
		Amount:    amount,
		CreatedAt: now,
	}

	err := s.store.WithTransaction(func(tx domain.Store) error {
		// The row lock taken here serializes concurrent withdrawals against
		// the same user, so the balance check below cannot act on a stale
		// balance.
		user, err := tx.User().GetUserForUpdate(userID)
		if err != nil {
			return err
		}

		monthlyTotal := decimal.Zero
		if user.AccountType == domain.AccountTypeBusiness {
			monthlyTotal, err = tx.Transaction().MonthlyWithdrawalTotal(userID, now)
			if err != nil {
				return err
			}
		}

		fee := withdrawalFee(user.AccountType, amount, monthlyTotal, now)
		debit := amount.Add(fee)

		if user.Balance.LessThan(debit) {
			return errors.ErrInsufficientBalance
		}

		if err := tx.User().UpdateUserBalance(userID, user.Balance.Sub(debit)); err != nil {
			return err
		}

		transaction.Fee = fee
		return tx.Transaction().CreateTransaction(transaction)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.InsufficientBalance {
			s.logger.Warn("Withdrawal rejected", "user_id", userID, "amount", amount)
		} else {
			s.logger.Error("Withdrawal failed", "user_id", userID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Withdrawal completed",
		"transaction_id", transaction.ID,
		"amount", transaction.Amount,
		"fee", transaction.Fee)
	return transaction, nil
}

func (s *LedgerService) Statement(userID uuid.UUID) (*Statement, error) {
	user, err := s.store.User().GetUser(userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.Transaction().ListTransactions(userID)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Balance:      user.Balance,
		Transactions: transactions,
	}, nil
}

func (s *LedgerService) ListTransactionsByKind(userID uuid.UUID, kind domain.TransactionKind) ([]domain.Transaction, error) {
	return s.store.Transaction().ListTransactionsByKind(userID, kind)
}
