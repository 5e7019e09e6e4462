package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeIndividual AccountType = "Individual"
	AccountTypeBusiness   AccountType = "Business"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeIndividual || t == AccountTypeBusiness
}

type User struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	AccountType  AccountType     `json:"account_type"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type UserRepository interface {
	CreateUser(user *User) error
	GetUser(id uuid.UUID) (*User, error)
	// GetUserForUpdate locks the user row for the duration of the surrounding
	// database transaction so that balance check and mutation are serialized.
	GetUserForUpdate(id uuid.UUID) (*User, error)
	GetUserByEmail(email string) (*User, error)
	UpdateUserBalance(id uuid.UUID, newBalance decimal.Decimal) error
}
