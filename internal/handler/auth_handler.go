package handler

import (
	"encoding/json"
	"net/http"

	"banking-ledger/internal/errors"
	"banking-ledger/internal/httputil"
	"banking-ledger/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, errors.NewAppError(errors.InvalidInput, "email and password are required"))
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
