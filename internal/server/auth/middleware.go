package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/walletscope/walletscope/internal/common"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id set by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Middleware verifies the bearer token and stores the user id in the request
// context. Requests without a valid token get 401.
func Middleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthHeaderName)
			if header == "" || !strings.HasPrefix(header, common.AuthScheme+" ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, common.AuthScheme+" ")

			userID, err := GetUserIDFromToken(tokenString, secretKey)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
