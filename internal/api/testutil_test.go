package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/api"
	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/ratelimit"
	"github.com/joestump/shortlinks/internal/store"
	"github.com/joestump/shortlinks/internal/testutil"
)

const (
	defaultDomain = "sl.ink"
	qrBaseURL     = "https://api.sl.ink/qr"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router     http.Handler
	Users      *store.UserStore
	Projects   *store.ProjectStore
	Domains    *store.DomainStore
	Tags       *store.TagStore
	Links      *store.LinkStore
	TokenStore *auth.SQLTokenStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores.
func newTestEnv(t *testing.T, limiter *ratelimit.Limiter) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	env := &testEnv{
		Users:      store.NewUserStore(db),
		Projects:   store.NewProjectStore(db, time.Minute),
		Domains:    store.NewDomainStore(db),
		Tags:       store.NewTagStore(db),
		Links:      store.NewLinkStore(db),
		TokenStore: auth.NewSQLTokenStore(db),
	}

	svc, err := links.NewService(env.Links, env.Tags, env.Domains, defaultDomain, zap.NewNop())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api", api.NewAPIRouter(api.Deps{
		BearerAuth:  auth.NewBearerTokenMiddleware(env.TokenStore, env.Users, zap.NewNop()),
		Projects:    env.Projects,
		Links:       svc,
		RateLimiter: limiter,
		Logger:      zap.NewNop(),
		QRBaseURL:   qrBaseURL,
	}))
	env.Router = r
	return env
}

// seedMember creates a user, a token for them, and makes them a member of
// project. It returns the plaintext Bearer value.
func seedMember(t *testing.T, env *testEnv, email string, project *store.Project) (*store.User, string) {
	t.Helper()
	ctx := context.Background()
	u, err := env.Users.Create(ctx, email, "Test User")
	require.NoError(t, err)
	if project != nil {
		require.NoError(t, env.Projects.AddMember(ctx, project.ID, u.ID, store.RoleMember))
	}
	return u, seedToken(t, env, u.ID)
}

// seedProject creates a project owned by a new user and returns the owner's token.
func seedProject(t *testing.T, env *testEnv, slug string) (*store.Project, *store.User, string) {
	t.Helper()
	ctx := context.Background()
	owner, err := env.Users.Create(ctx, slug+"-owner@example.com", "Owner")
	require.NoError(t, err)
	p, err := env.Projects.Create(ctx, slug, slug, owner.ID)
	require.NoError(t, err)
	return p, owner, seedToken(t, env, owner.ID)
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	require.NoError(t, err)
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	require.NoError(t, err)
	return plaintext
}

// do sends a request with an optional Bearer token and JSON body.
func do(t *testing.T, env *testEnv, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// decodeError decodes a standard error body and checks its status mapping.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierror.Detail {
	t.Helper()
	var body apierror.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	require.Equal(t, body.Error.Code.Status(), rec.Code)
	return body.Error
}
