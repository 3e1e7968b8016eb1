package openapi

import (
	"fmt"

	"github.com/go-openapi/spec"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/links"
)

// Operation ids.
const (
	BulkCreateLinksID = "bulkCreateLinks"
	CreateLinkID      = "createLink"
	GetLinkInfoID     = "getLinkInfo"
)

const (
	// SecurityScheme is the name of the bearer token security definition.
	SecurityScheme = "bearerToken"

	// LinksTag groups every link operation.
	LinksTag = "Links"
)

// linkInfoQuery returns the query parameters that address a link within a
// project. Operations pick the subset they accept.
func linkInfoQuery() map[string]*spec.Parameter {
	return map[string]*spec.Parameter{
		"projectSlug": spec.QueryParam("projectSlug").Typed("string", "").AsRequired().
			WithDescription("The slug of the project the link belongs to."),
		"domain": spec.QueryParam("domain").Typed("string", "").
			WithDescription("The domain of the link. Defaults to the primary domain."),
		"key": spec.QueryParam("key").Typed("string", "").AsRequired().
			WithDescription("The key of the link."),
	}
}

func pickQuery(names ...string) []*spec.Parameter {
	all := linkInfoQuery()
	out := make([]*spec.Parameter, 0, len(names))
	for _, n := range names {
		p, ok := all[n]
		if !ok {
			panic(fmt.Sprintf("openapi: unknown link info query parameter %q", n))
		}
		out = append(out, p)
	}
	return out
}

// errorResponses names the shared response for each error code.
func errorResponses() map[string]spec.Response {
	out := make(map[string]spec.Response, len(apierror.Codes()))
	for _, c := range apierror.Codes() {
		out[string(c)] = *spec.NewResponse().
			WithDescription(c.Description()).
			WithSchema(ref(ErrorName))
	}
	return out
}

// linkOperation returns an operation carrying the metadata every link
// operation shares: tag, security, and the error response set.
func linkOperation(id, summary, description string) *spec.Operation {
	op := spec.NewOperation(id).
		WithSummary(summary).
		WithDescription(description).
		WithTags(LinksTag).
		WithProduces("application/json")
	op.Security = []map[string][]string{{SecurityScheme: {}}}
	for _, c := range apierror.Codes() {
		op.RespondsWith(c.Status(), spec.ResponseRef("#/responses/"+string(c)))
	}
	return op
}

func bulkCreateLinks() *spec.Operation {
	op := linkOperation(BulkCreateLinksID,
		"Bulk create links",
		fmt.Sprintf("Bulk create up to %d links for the authenticated project.", links.MaxBulkLinks))
	op.WithConsumes("application/json")
	for _, p := range pickQuery("projectSlug") {
		op.AddParam(p)
	}
	op.AddParam(spec.BodyParam("body", spec.ArrayProperty(ref(CreateLinkBodyName)).WithMaxItems(links.MaxBulkLinks)).AsRequired())
	op.RespondsWith(200, spec.NewResponse().
		WithDescription("The created links").
		WithSchema(spec.ArrayProperty(ref(LinkName))))
	return op
}

func createLink() *spec.Operation {
	op := linkOperation(CreateLinkID,
		"Create a new link",
		"Create a new link for the authenticated project.")
	op.WithConsumes("application/json")
	for _, p := range pickQuery("projectSlug") {
		op.AddParam(p)
	}
	op.AddParam(spec.BodyParam("body", ref(CreateLinkBodyName)).AsRequired())
	op.RespondsWith(200, spec.NewResponse().
		WithDescription("The created link").
		WithSchema(ref(LinkName)))
	return op
}

func getLinkInfo() *spec.Operation {
	op := linkOperation(GetLinkInfoID,
		"Retrieve a link",
		"Retrieve the info for a link from their domain and key.")
	for _, p := range pickQuery("projectSlug", "domain", "key") {
		op.AddParam(p)
	}
	op.RespondsWith(200, spec.NewResponse().
		WithDescription("The retrieved link").
		WithSchema(ref(LinkName)))
	return op
}

func paths() *spec.Paths {
	return &spec.Paths{Paths: map[string]spec.PathItem{
		"/links/bulk": {PathItemProps: spec.PathItemProps{Post: bulkCreateLinks()}},
		"/links":      {PathItemProps: spec.PathItemProps{Post: createLink()}},
		"/links/info": {PathItemProps: spec.PathItemProps{Get: getLinkInfo()}},
	}}
}
