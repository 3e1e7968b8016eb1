package auth

import (
	"context"

	"github.com/joestump/shortlinks/internal/store"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// WithUser returns a copy of ctx carrying the authenticated user and the
// token that authenticated the request.
func WithUser(ctx context.Context, user *store.User, token *TokenRecord) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(userContextKey).(*store.User)
	return u
}

// TokenFromContext retrieves the API token that authenticated the request.
func TokenFromContext(ctx context.Context) *TokenRecord {
	t, _ := ctx.Value(tokenContextKey).(*TokenRecord)
	return t
}
