package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ayush/taskflow/internal/auth"
	"github.com/ayush/taskflow/internal/models"
	"github.com/ayush/taskflow/internal/web"
)

// UserResolver looks up the account behind a verified token.
type UserResolver interface {
	GetByID(ctx context.Context, id string, withSecrets bool) (*models.User, error)
}

// RequireAuth validates the bearer access token, resolves it to a live user
// record, and injects the identity into the request context. It never
// mutates persisted state.
func RequireAuth(tokens *auth.TokenIssuer, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				web.Fail(w, http.StatusUnauthorized, web.CodeUnauthenticated, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(token, auth.AccessToken)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					web.Fail(w, http.StatusUnauthorized, web.CodeTokenExpired, "access token expired")
					return
				}
				web.Fail(w, http.StatusUnauthorized, web.CodeInvalidToken, "invalid access token")
				return
			}

			user, err := users.GetByID(r.Context(), userID, false)
			if err != nil {
				log.Printf("resolve user: %v", err)
				web.Internal(w)
				return
			}
			if user == nil {
				// Token outlived the account.
				web.Fail(w, http.StatusUnauthorized, web.CodeUnauthenticated, "account no longer exists")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
