package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/store"
)

// BearerTokenMiddleware authenticates API requests via Bearer token.
// Only API tokens are accepted; there is no cookie session.
type BearerTokenMiddleware struct {
	tokens TokenStore
	users  *store.UserStore
	log    *zap.Logger
}

// NewBearerTokenMiddleware creates a new BearerTokenMiddleware.
func NewBearerTokenMiddleware(ts TokenStore, us *store.UserStore, log *zap.Logger) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts, users: us, log: log}
}

// Authenticate is an http.Handler middleware that extracts and validates a Bearer token.
// WHEN valid: injects the token owner's *store.User and the token into context and
// fires an async last_used_at update.
// WHEN invalid/missing/expired/revoked: returns 401 with the standard error body.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			apierror.Write(w, apierror.Unauthorized, "Missing Authorization header.")
			return
		}
		plaintext, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || plaintext == "" {
			apierror.Write(w, apierror.Unauthorized, "Misconfigured authorization header. Did you forget to add 'Bearer '?")
			return
		}

		rec, err := m.tokens.GetByHash(r.Context(), HashToken(plaintext))
		if err != nil {
			apierror.Write(w, apierror.Unauthorized, "Unauthorized: Invalid API key.")
			return
		}

		if rec.RevokedAt.Valid {
			apierror.Write(w, apierror.Unauthorized, "Unauthorized: API key has been revoked.")
			return
		}
		if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
			apierror.Write(w, apierror.Unauthorized, "Unauthorized: API key has expired.")
			return
		}

		user, err := m.users.GetByID(r.Context(), rec.UserID)
		if err != nil {
			apierror.Write(w, apierror.Unauthorized, "Unauthorized: Invalid API key.")
			return
		}

		// Update last_used_at asynchronously to avoid write overhead on every read.
		go func(id string) {
			if err := m.tokens.UpdateLastUsed(context.Background(), id); err != nil {
				m.log.Debug("update token last_used_at", zap.String("token_id", id), zap.Error(err))
			}
		}(rec.ID)

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, rec)))
	})
}
