package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
	"banking-ledger/internal/httputil"
	"banking-ledger/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type CreateUserRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (req *CreateUserRequest) validate() *errors.AppError {
	if req.Name == "" {
		return errors.NewAppError(errors.InvalidInput, "name is required")
	}
	accountType := domain.AccountType(req.AccountType)
	if !accountType.Valid() {
		return errors.NewAppError(errors.InvalidInput, "account_type must be Individual or Business")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.NewAppError(errors.InvalidInput, "email must be a valid address")
	}
	if len(req.Password) < 6 {
		return errors.NewAppError(errors.InvalidInput, "password must be at least 6 characters")
	}
	return nil
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	if appErr := req.validate(); appErr != nil {
		httputil.WriteError(w, appErr)
		return
	}

	user, err := h.userService.Register(service.RegisterRequest{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		AccountType: domain.AccountType(req.AccountType),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}
