package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/store"
)

// writeError writes the standard error body for code.
func writeError(w http.ResponseWriter, code apierror.Code, message string) {
	apierror.Write(w, code, message)
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeInternal logs err and writes a generic 500.
func writeInternal(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	log.Error("api request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, apierror.InternalServerError, "An internal server error occurred.")
}

// writeLinkError maps errors from the links service to API errors. bulk
// selects messages that name the offending item.
func writeLinkError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, bulk bool) {
	var verr *links.ValidationError
	var cerr *links.ConflictError
	switch {
	case errors.Is(err, links.ErrTooManyLinks):
		writeError(w, apierror.BadRequest, fmt.Sprintf("You can only create up to %d links at a time.", links.MaxBulkLinks))
	case errors.As(err, &verr):
		if bulk {
			writeError(w, apierror.UnprocessableEntity, fmt.Sprintf("Invalid link at index %d: %s", verr.Index, verr.Message))
			return
		}
		writeError(w, apierror.UnprocessableEntity, verr.Message)
	case errors.Is(err, links.ErrDomainNotAllowed):
		writeError(w, apierror.Forbidden, "Domain does not belong to this project.")
	case errors.As(err, &cerr):
		msg := fmt.Sprintf("Duplicate key: %s/%s already exists.", cerr.Domain, cerr.Key)
		if bulk {
			msg = fmt.Sprintf("Duplicate key at index %d: %s/%s already exists.", cerr.Index, cerr.Domain, cerr.Key)
		}
		writeError(w, apierror.Conflict, msg)
	case errors.Is(err, store.ErrKeyTaken):
		// Lost a race with a concurrent insert after the key checks passed.
		writeError(w, apierror.Conflict, "Duplicate key: this short link already exists.")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, apierror.NotFound, "Link not found.")
	default:
		writeInternal(w, r, log, err)
	}
}
