package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/accsvc-dev/accsvc/internal/domain"
	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

// SessionParser verifies a bearer token and returns the account it was
// issued for.
type SessionParser interface {
	ParseSessionToken(token string) (domain.AccountId, error)
}

// Key to store the caller's account id in the request context
type key int

const accountIdKey key = 0

type Auth struct {
	tokens SessionParser
}

func NewAuth(tokens SessionParser) *Auth {
	return &Auth{tokens: tokens}
}

// RequireAuth returns middleware that rejects requests without a valid
// session token. A missing or malformed Authorization header is 401; a
// present but unverifiable token is 400. Any valid token suffices; there
// is no role check.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Access Denied", http.StatusUnauthorized)
				return
			}

			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				http.Error(w, "Access Denied", http.StatusUnauthorized)
				return
			}

			id, err := a.tokens.ParseSessionToken(tokenString)
			if err != nil {
				if e, ok := err.(*internal_errors.ErrorWithStatusCode); ok {
					http.Error(w, e.Message, e.StatusCode)
				} else {
					http.Error(w, "Invalid Token", http.StatusBadRequest)
				}
				return
			}

			ctx := context.WithValue(r.Context(), accountIdKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIdFromContext retrieves the authenticated caller's account id.
func AccountIdFromContext(r *http.Request) (domain.AccountId, bool) {
	id, ok := r.Context().Value(accountIdKey).(domain.AccountId)
	return id, ok
}
