package httputil

import (
	"encoding/json"
	"net/http"

	"banking-ledger/internal/errors"
)

// ErrorResponse is the error body of the preserved API contract.
type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, appErr *errors.AppError) {
	WriteJSON(w, appErr.HTTPStatus(), ErrorResponse{Message: appErr.Message})
}
