package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"banking-ledger/internal/auth"
	"banking-ledger/internal/errors"
	"banking-ledger/internal/httputil"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// Authenticated requires a valid bearer token and stores the resolved user id
// on the request context.
func Authenticated(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, errors.NewAppError(errors.Unauthorized, "missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, errors.NewAppError(errors.Unauthorized, "invalid authorization header"))
				return
			}

			userID, err := tokens.Validate(parts[1])
			if err != nil {
				httputil.WriteError(w, errors.NewAppError(errors.Unauthorized, "invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by Authenticated.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return userID, ok
}
