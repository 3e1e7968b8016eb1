package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/store"
	"github.com/joestump/shortlinks/internal/testutil"
)

type middlewareFixture struct {
	mw     *BearerTokenMiddleware
	tokens *SQLTokenStore
	user   *store.User
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	user, err := users.Create(context.Background(), "grace@example.com", "Grace")
	require.NoError(t, err)

	tokens := NewSQLTokenStore(db)
	return &middlewareFixture{
		mw:     NewBearerTokenMiddleware(tokens, users, zap.NewNop()),
		tokens: tokens,
		user:   user,
	}
}

func (f *middlewareFixture) issue(t *testing.T, expiresAt *time.Time) (string, *TokenRecord) {
	t.Helper()
	plain, hash, err := GenerateToken()
	require.NoError(t, err)
	rec, err := f.tokens.Create(context.Background(), f.user.ID, "test", hash, expiresAt)
	require.NoError(t, err)
	return plain, rec
}

func serve(mw *BearerTokenMiddleware, header string) (*httptest.ResponseRecorder, *store.User, *TokenRecord) {
	var gotUser *store.User
	var gotToken *TokenRecord
	h := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/links/info", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, gotUser, gotToken
}

func TestBearerTokenMiddleware_Valid(t *testing.T) {
	f := newMiddlewareFixture(t)
	plain, rec := f.issue(t, nil)

	rr, user, token := serve(f.mw, "Bearer "+plain)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, user)
	assert.Equal(t, f.user.ID, user.ID)
	require.NotNil(t, token)
	assert.Equal(t, rec.ID, token.ID)
}

func TestBearerTokenMiddleware_Rejects(t *testing.T) {
	f := newMiddlewareFixture(t)

	past := time.Now().Add(-time.Hour)
	expired, _ := f.issue(t, &past)

	revoked, rec := f.issue(t, nil)
	require.NoError(t, f.tokens.Revoke(context.Background(), rec.ID, f.user.ID))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer sl_doesnotexist"},
		{"expired token", "Bearer " + expired},
		{"revoked token", "Bearer " + revoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, user, _ := serve(f.mw, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Nil(t, user)

			var body apierror.Body
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, apierror.Unauthorized, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}
