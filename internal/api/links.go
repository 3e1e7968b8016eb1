package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/metrics"
)

// maxBodyBytes caps request bodies; 100 fully populated links fit well within it.
const maxBodyBytes = 4 << 20

// linksAPIHandler provides REST handlers for link creation and lookup.
type linksAPIHandler struct {
	links     *links.Service
	log       *zap.Logger
	qrBaseURL string
}

// BulkCreate creates up to links.MaxBulkLinks links in one transaction.
// POST /api/links/bulk?projectSlug=
func (h *linksAPIHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apierror.BadRequest, "Request body is too large or could not be read.")
		return
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		writeError(w, apierror.BadRequest, "Request body must be a JSON array of links.")
		return
	}

	var bodies []links.CreateLinkBody
	if err := json.Unmarshal(raw, &bodies); err != nil {
		writeError(w, apierror.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	metrics.BulkRequestSize.Observe(float64(len(bodies)))

	project := projectFromContext(r.Context())
	user := auth.UserFromContext(r.Context())
	results, err := h.links.BulkCreate(r.Context(), project, user.ID, bodies)
	if err != nil {
		writeLinkError(w, r, h.log, err, true)
		return
	}
	metrics.LinksCreatedTotal.WithLabelValues("bulk").Add(float64(len(results)))

	resp := make([]*LinkResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, newLinkResponse(res, h.qrBaseURL))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create creates a single link.
// POST /api/links?projectSlug=
func (h *linksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body links.CreateLinkBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, apierror.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	project := projectFromContext(r.Context())
	user := auth.UserFromContext(r.Context())
	res, err := h.links.Create(r.Context(), project, user.ID, body)
	if err != nil {
		writeLinkError(w, r, h.log, err, false)
		return
	}
	metrics.LinksCreatedTotal.WithLabelValues("single").Inc()
	writeJSON(w, http.StatusOK, newLinkResponse(res, h.qrBaseURL))
}

// Info returns the link addressed by domain and key.
// GET /api/links/info?projectSlug=&domain=&key=
func (h *linksAPIHandler) Info(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	if key == "" {
		writeError(w, apierror.BadRequest, "Missing key query parameter.")
		return
	}

	res, err := h.links.Info(r.Context(), projectFromContext(r.Context()), q.Get("domain"), key)
	if err != nil {
		writeLinkError(w, r, h.log, err, false)
		return
	}
	writeJSON(w, http.StatusOK, newLinkResponse(res, h.qrBaseURL))
}
