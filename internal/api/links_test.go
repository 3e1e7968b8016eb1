package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/shortlinks/internal/api"
	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/ratelimit"
)

func TestBulkCreate_OK(t *testing.T) {
	env := newTestEnv(t, nil)
	project, owner, token := seedProject(t, env, "acme")
	tag, err := env.Tags.Create(context.Background(), project.ID, "launch", "purple")
	require.NoError(t, err)

	body := fmt.Sprintf(`[
		{"url": "https://example.com/a?utm_source=news&utm_medium=email", "key": "a", "tagIds": [%q]},
		{"url": "example.com/b", "comments": "second"}
	]`, tag.ID)
	rec := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp []api.LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	a := resp[0]
	assert.Equal(t, "a", a.Key)
	assert.Equal(t, defaultDomain, a.Domain)
	assert.Equal(t, "https://sl.ink/a", a.ShortLink)
	assert.Equal(t, qrBaseURL+"?url=https%3A%2F%2Fsl.ink%2Fa", a.QRCode)
	assert.Equal(t, owner.ID, a.UserID)
	assert.Equal(t, project.ID, a.ProjectID)
	require.Len(t, a.Tags, 1)
	assert.Equal(t, "launch", a.Tags[0].Name)
	require.NotNil(t, a.TagID)
	assert.Equal(t, tag.ID, *a.TagID)
	require.NotNil(t, a.UTMSource)
	assert.Equal(t, "news", *a.UTMSource)
	require.NotNil(t, a.UTMMedium)
	assert.Equal(t, "email", *a.UTMMedium)
	assert.Nil(t, a.UTMCampaign)
	assert.Nil(t, a.ExpiresAt)
	assert.Nil(t, a.Comments)

	b := resp[1]
	assert.Equal(t, "https://example.com/b", b.URL)
	assert.Len(t, b.Key, 7)
	assert.Empty(t, b.Tags)
	assert.Nil(t, b.TagID)
	require.NotNil(t, b.Comments)
	assert.Equal(t, "second", *b.Comments)
}

func TestBulkCreate_NullableFieldsRenderAsNull(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, token := seedProject(t, env, "acme")

	rec := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com"}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	for _, k := range []string{"expiresAt", "password", "geo", "tagId", "lastClicked", "utm_source"} {
		v, ok := raw[0][k]
		assert.True(t, ok, "missing %s", k)
		assert.Nil(t, v, k)
	}
	assert.Equal(t, []any{}, raw[0]["tags"])
}

func TestBulkCreate_Empty(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, token := seedProject(t, env, "acme")

	rec := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, `[]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBulkCreate_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	project, _, token := seedProject(t, env, "acme")
	_, outsider := seedMember(t, env, "outsider@example.com", nil)
	_, err := env.Domains.Add(context.Background(), project.ID, "go.acme.com", true)
	require.NoError(t, err)

	ok := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com","key":"taken"}]`)
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	tooMany := make([]string, 101)
	for i := range tooMany {
		tooMany[i] = `{"url":"https://example.com"}`
	}

	tests := []struct {
		name    string
		path    string
		token   string
		body    string
		code    apierror.Code
		message string
	}{
		{"no token", "/api/links/bulk?projectSlug=acme", "", `[]`, apierror.Unauthorized, ""},
		{"missing project slug", "/api/links/bulk", token, `[]`, apierror.BadRequest, "projectSlug"},
		{"unknown project", "/api/links/bulk?projectSlug=nope", token, `[]`, apierror.NotFound, "Project not found"},
		{"not a member", "/api/links/bulk?projectSlug=acme", outsider, `[]`, apierror.Forbidden, ""},
		{"object body", "/api/links/bulk?projectSlug=acme", token, `{"url":"https://example.com"}`, apierror.BadRequest, "JSON array"},
		{"malformed body", "/api/links/bulk?projectSlug=acme", token, `[{"url":`, apierror.BadRequest, ""},
		{"too many links", "/api/links/bulk?projectSlug=acme", token, "[" + strings.Join(tooMany, ",") + "]", apierror.BadRequest, "up to 100 links"},
		{"invalid item", "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com"},{"title":"no url"}]`, apierror.UnprocessableEntity, "index 1"},
		{"foreign domain", "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com","domain":"other.com"}]`, apierror.Forbidden, "Domain"},
		{"stored key", "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com","key":"taken"}]`, apierror.Conflict, "sl.ink/taken"},
		{"repeated key", "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com","key":"x"},{"url":"https://example.com","key":"x"}]`, apierror.Conflict, "index 1"},
		{"unknown tag", "/api/links/bulk?projectSlug=acme", token, `[{"url":"https://example.com","tagIds":["missing"]}]`, apierror.UnprocessableEntity, "index 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, env, http.MethodPost, tt.path, tt.token, tt.body)
			detail := decodeError(t, rec)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.code.DocURL(), detail.DocURL)
			assert.Contains(t, detail.Message, tt.message)
		})
	}

	n, err := env.Links.CountByProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed requests must not create links")
}

func TestCreate_OK(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, token := seedProject(t, env, "acme")

	rec := do(t, env, http.MethodPost, "/api/links?projectSlug=acme", token,
		`{"url":"https://example.com/docs","key":"Docs-Home","geo":{"de":"https://example.de"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Docs-Home", resp.Key)
	assert.Equal(t, map[string]string{"DE": "https://example.de"}, resp.Geo)
}

func TestCreate_ValidationMessageOmitsIndex(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, token := seedProject(t, env, "acme")

	rec := do(t, env, http.MethodPost, "/api/links?projectSlug=acme", token, `{"key":"no-url"}`)
	detail := decodeError(t, rec)
	assert.Equal(t, apierror.UnprocessableEntity, detail.Code)
	assert.NotContains(t, detail.Message, "index")
}

func TestInfo(t *testing.T) {
	env := newTestEnv(t, nil)
	_, _, token := seedProject(t, env, "acme")
	_, _, otherToken := seedProject(t, env, "other")

	rec := do(t, env, http.MethodPost, "/api/links?projectSlug=acme", token, `{"url":"https://example.com","key":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, env, http.MethodGet, "/api/links/info?projectSlug=acme&key=hello", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Key)

	rec = do(t, env, http.MethodGet, "/api/links/info?projectSlug=acme", token, "")
	assert.Equal(t, apierror.BadRequest, decodeError(t, rec).Code)

	rec = do(t, env, http.MethodGet, "/api/links/info?projectSlug=acme&key=missing", token, "")
	assert.Equal(t, apierror.NotFound, decodeError(t, rec).Code)

	rec = do(t, env, http.MethodGet, "/api/links/info?projectSlug=other&key=hello", otherToken, "")
	assert.Equal(t, apierror.NotFound, decodeError(t, rec).Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, ratelimit.New(0.001, 2))
	_, _, token := seedProject(t, env, "acme")
	_, _, other := seedProject(t, env, "other")

	for range 2 {
		rec := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, `[]`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=acme", token, `[]`)
	assert.Equal(t, apierror.RateLimitExceeded, decodeError(t, rec).Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Each token has its own bucket.
	rec = do(t, env, http.MethodPost, "/api/links/bulk?projectSlug=other", other, `[]`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDocsArePublic(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := do(t, env, http.MethodGet, "/api/openapi.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"operationId": "bulkCreateLinks"`)

	rec = do(t, env, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, apierror.NotFound, decodeError(t, rec).Code)
}
