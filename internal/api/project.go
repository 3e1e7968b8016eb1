package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/store"
)

type contextKey string

const projectContextKey contextKey = "project"

// requireProject resolves the projectSlug query parameter and checks that the
// authenticated user belongs to the project.
func requireProject(projects *store.ProjectStore, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := r.URL.Query().Get("projectSlug")
			if slug == "" {
				writeError(w, apierror.BadRequest, "Missing projectSlug query parameter.")
				return
			}

			user := auth.UserFromContext(r.Context())
			if user == nil {
				writeError(w, apierror.Unauthorized, "Unauthorized.")
				return
			}

			project, err := projects.GetBySlug(r.Context(), slug)
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, apierror.NotFound, "Project not found.")
				return
			}
			if err != nil {
				writeInternal(w, r, log, err)
				return
			}

			_, err = projects.MemberRole(r.Context(), project.ID, user.ID)
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, apierror.Forbidden, "You don't have access to this project.")
				return
			}
			if err != nil {
				writeInternal(w, r, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), projectContextKey, project)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// projectFromContext returns the project resolved by requireProject.
func projectFromContext(ctx context.Context) *store.Project {
	p, _ := ctx.Value(projectContextKey).(*store.Project)
	return p
}
