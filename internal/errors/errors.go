package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput        ErrorCode = "invalid_input"
	InvalidAmount       ErrorCode = "invalid_amount"
	InvalidCredentials  ErrorCode = "invalid_credentials"
	Unauthorized        ErrorCode = "unauthorized"
	UserNotFound        ErrorCode = "user_not_found"
	DuplicateUser       ErrorCode = "duplicate_user"
	InsufficientBalance ErrorCode = "insufficient_balance"
	InternalError       ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps an error code to the status code of the preserved HTTP
// contract.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, InsufficientBalance:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case UserNotFound:
		return http.StatusNotFound
	case DuplicateUser:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrUserNotFound           = NewAppError(UserNotFound, "User not found")
	ErrDuplicateUser          = NewAppError(DuplicateUser, "email already registered")
	ErrInvalidCredentials     = NewAppError(InvalidCredentials, "Invalid credentials")
	ErrInsufficientBalance    = NewAppError(InsufficientBalance, "Insufficient balance")
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be positive")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from within a transaction")
)
