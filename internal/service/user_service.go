package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"banking-ledger/internal/auth"
	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
)

type UserService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewUserService(store domain.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	AccountType domain.AccountType
}

// Register creates a user with a zero opening balance.
func (s *UserService) Register(req RegisterRequest) (*domain.User, error) {
	s.logger.Info("Registering user", "email", req.Email, "account_type", req.AccountType)

	if !req.AccountType.Valid() {
		return nil, errors.NewAppError(errors.InvalidInput, "account_type must be Individual or Business")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		AccountType:  req.AccountType,
		Balance:      decimal.Zero,
	}

	if err := s.store.User().CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Get(id uuid.UUID) (*domain.User, error) {
	return s.store.User().GetUser(id)
}
