package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/metrics"
	"github.com/joestump/shortlinks/internal/openapi"
	"github.com/joestump/shortlinks/internal/ratelimit"
	"github.com/joestump/shortlinks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth  *auth.BearerTokenMiddleware
	Projects    *store.ProjectStore
	Links       *links.Service
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger
	QRBaseURL   string
}

// NewAPIRouter creates the chi sub-router mounted at /api.
// The document and Swagger UI are public; link routes require a Bearer token
// and a projectSlug the caller is a member of.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	openapi.Mount(r)

	h := &linksAPIHandler{links: deps.Links, log: deps.Logger, qrBaseURL: deps.QRBaseURL}
	r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(deps.BearerAuth.Authenticate)
		r.Use(deps.RateLimiter.Middleware(tokenKey, rateLimited))
		r.Use(requireProject(deps.Projects, deps.Logger))

		r.Post("/links/bulk", h.BulkCreate)
		r.Post("/links", h.Create)
		r.Get("/links/info", h.Info)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apierror.NotFound, "The requested endpoint does not exist.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apierror.BadRequest, "Method not allowed.")
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// tokenKey buckets requests by the API token that authenticated them.
func tokenKey(r *http.Request) string {
	if t := auth.TokenFromContext(r.Context()); t != nil {
		return t.ID
	}
	return ""
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	metrics.RateLimitedTotal.Inc()
	writeError(w, apierror.RateLimitExceeded, "Too many requests. Please slow down and retry shortly.")
}
