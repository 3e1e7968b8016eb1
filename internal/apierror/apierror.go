// Package apierror defines the API's standard error responses. The same table
// drives both the JSON bodies written by handlers and the error responses
// published in the OpenAPI document.
package apierror

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/joestump/shortlinks/internal/metrics"
)

// Code identifies an error class. Each code maps to exactly one HTTP status.
type Code string

const (
	BadRequest          Code = "bad_request"
	Unauthorized        Code = "unauthorized"
	Forbidden           Code = "forbidden"
	NotFound            Code = "not_found"
	Conflict            Code = "conflict"
	InviteExpired       Code = "invite_expired"
	UnprocessableEntity Code = "unprocessable_entity"
	RateLimitExceeded   Code = "rate_limit_exceeded"
	InternalServerError Code = "internal_server_error"
)

// DocsURL is the base of the per-code documentation links in error bodies.
const DocsURL = "https://sl.ink/docs/api-reference/errors"

type codeInfo struct {
	status      int
	description string
}

var codes = map[Code]codeInfo{
	BadRequest:          {http.StatusBadRequest, "The server cannot or will not process the request due to something that is perceived to be a client error (e.g., malformed request syntax, invalid request message framing, or deceptive request routing)."},
	Unauthorized:        {http.StatusUnauthorized, "Although the HTTP standard specifies \"unauthorized\", semantically this response means \"unauthenticated\". That is, the client must authenticate itself to get the requested response."},
	Forbidden:           {http.StatusForbidden, "The client does not have access rights to the content; that is, it is unauthorized, so the server is refusing to give the requested resource."},
	NotFound:            {http.StatusNotFound, "The server cannot find the requested resource."},
	Conflict:            {http.StatusConflict, "This response is sent when a request conflicts with the current state of the server."},
	InviteExpired:       {http.StatusGone, "This response is sent when the requested content has been permanently deleted from server, with no forwarding address."},
	UnprocessableEntity: {http.StatusUnprocessableEntity, "The request was well-formed but was unable to be followed due to semantic errors."},
	RateLimitExceeded:   {http.StatusTooManyRequests, "The user has sent too many requests in a given amount of time (\"rate limiting\")."},
	InternalServerError: {http.StatusInternalServerError, "The server has encountered a situation it does not know how to handle."},
}

// Codes returns every error code ordered by HTTP status.
func Codes() []Code {
	out := make([]Code, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return codes[out[i]].status < codes[out[j]].status })
	return out
}

// Status returns the HTTP status for c, or 500 for unknown codes.
func (c Code) Status() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Description returns the human-readable meaning of c.
func (c Code) Description() string {
	return codes[c].description
}

// DocURL returns the documentation link for c.
func (c Code) DocURL() string {
	return DocsURL + "#" + string(c)
}

// Detail is the inner error object.
type Detail struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	DocURL  string `json:"doc_url"`
}

// Body is the JSON envelope of every error response.
type Body struct {
	Error Detail `json:"error"`
}

// New builds the response body for code and message.
func New(code Code, message string) Body {
	return Body{Error: Detail{Code: code, Message: message, DocURL: code.DocURL()}}
}

// Write writes a JSON error response with the status mapped from code and
// counts it in the API error metric.
func Write(w http.ResponseWriter, code Code, message string) {
	metrics.APIErrorsTotal.WithLabelValues(string(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.Status())
	_ = json.NewEncoder(w).Encode(New(code, message))
}
