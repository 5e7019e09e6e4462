package service

import (
	"log/slog"

	"banking-ledger/internal/auth"
	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
)

type AuthService struct {
	store  domain.Store
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewAuthService(store domain.Store, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies the credentials and issues a bearer token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.store.User().GetUserByEmail(email)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.UserNotFound {
			return "", errors.ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.logger.Warn("Failed login attempt", "email", email)
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("Failed to sign token", "error", err)
		return "", errors.NewAppError(errors.InternalError, "failed to create token")
	}

	return token, nil
}
