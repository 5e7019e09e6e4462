package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"banking-ledger/internal/domain"
	"banking-ledger/internal/errors"
	"banking-ledger/internal/httputil"
	"banking-ledger/internal/middleware"
	"banking-ledger/internal/service"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

type MutationRequest struct {
	UserID string      `json:"user_id"`
	Amount json.Number `json:"amount"`
}

func (req *MutationRequest) parse() (uuid.UUID, decimal.Decimal, *errors.AppError) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return uuid.Nil, decimal.Zero, errors.NewAppError(errors.InvalidInput, "invalid user_id format")
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return uuid.Nil, decimal.Zero, errors.NewAppError(errors.InvalidAmount, "invalid amount format")
	}
	if !amount.IsPositive() {
		return uuid.Nil, decimal.Zero, errors.ErrInvalidAmount
	}

	return userID, amount, nil
}

// Statement serves GET /: the caller's balance and full transaction history.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, errors.NewAppError(errors.Unauthorized, "missing identity"))
		return
	}

	statement, err := h.ledgerService.Statement(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statement)
}

func (h *LedgerHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	h.listByKind(w, r, domain.TransactionKindDeposit)
}

func (h *LedgerHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	h.listByKind(w, r, domain.TransactionKindWithdrawal)
}

func (h *LedgerHandler) listByKind(w http.ResponseWriter, r *http.Request, kind domain.TransactionKind) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, errors.NewAppError(errors.Unauthorized, "missing identity"))
		return
	}

	transactions, err := h.ledgerService.ListTransactionsByKind(userID, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, transactions)
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerService.Deposit)
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerService.Withdraw)
}

func (h *LedgerHandler) mutate(w http.ResponseWriter, r *http.Request, apply func(uuid.UUID, decimal.Decimal) (*domain.Transaction, error)) {
	var req MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	userID, amount, appErr := req.parse()
	if appErr != nil {
		httputil.WriteError(w, appErr)
		return
	}

	transaction, err := apply(userID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, transaction)
}
