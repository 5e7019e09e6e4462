package handler

import (
	"net/http"

	"banking-ledger/internal/errors"
	"banking-ledger/internal/httputil"
)

func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		httputil.WriteError(w, appErr)
		return
	}
	httputil.WriteError(w, errors.NewAppError(errors.InternalError, "an unexpected error occurred"))
}
