package auth

import (
	"context"

	"github.com/ayush/taskflow/internal/models"
)

type ctxKey struct{}

// WithUser attaches the resolved identity to the request context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the identity placed in the context by the access guard,
// or nil if the request never passed through it.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}
