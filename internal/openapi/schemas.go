package openapi

import (
	"github.com/go-openapi/spec"

	"github.com/joestump/shortlinks/internal/apierror"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/store"
)

// Definition names referenced by $ref.
const (
	CreateLinkBodyName = "CreateLinkBody"
	LinkName           = "Link"
	TagName            = "Tag"
	ErrorName          = "Error"
)

// PrefixDescription documents CreateLinkBody.prefix. The prefix is joined to
// the key whether the key is given or generated.
const PrefixDescription = "The prefix of the short link key. It applies to both explicit and randomly-generated keys: with prefix c, key hello becomes c/hello and a generated key becomes c/<generated>."

func ref(name string) *spec.Schema {
	return spec.RefSchema("#/definitions/" + name)
}

func nullable(s *spec.Schema) *spec.Schema {
	s.AddExtension("x-nullable", true)
	return s
}

func urlProperty(desc string) *spec.Schema {
	return spec.StringProperty().WithDescription(desc).WithMaxLength(32000)
}

func definitions() spec.Definitions {
	return spec.Definitions{
		CreateLinkBodyName: *createLinkBodySchema(),
		LinkName:           *linkSchema(),
		TagName:            *tagSchema(),
		ErrorName:          *errorSchema(),
	}
}

func createLinkBodySchema() *spec.Schema {
	s := &spec.Schema{}
	s.Typed("object", "")
	s.WithDescription("A link to create.")
	s.WithRequired("url")
	s.SetProperty("url", *urlProperty("The destination URL of the short link. A URL without a scheme is prefixed with https://."))
	s.SetProperty("domain", *spec.StringProperty().
		WithDescription("The domain of the short link. Defaults to the primary domain when omitted.").
		WithMaxLength(190))
	s.SetProperty("key", *spec.StringProperty().
		WithDescription("The short link slug. A random 7-character key is generated when omitted.").
		WithMaxLength(links.MaxKeyLength))
	s.SetProperty("prefix", *spec.StringProperty().
		WithDescription(PrefixDescription).
		WithMaxLength(100))
	s.SetProperty("archived", *spec.BoolProperty().WithDescription("Whether the short link is archived."))
	s.SetProperty("publicStats", *spec.BoolProperty().WithDescription("Whether the short link's stats are publicly accessible."))
	s.SetProperty("tagIds", *spec.ArrayProperty(spec.StringProperty()).
		WithDescription("The unique IDs of the tags assigned to the short link.").
		WithMaxItems(50))
	s.SetProperty("comments", *spec.StringProperty().WithDescription("The comments for the short link.").WithMaxLength(2000))
	s.SetProperty("expiresAt", *spec.DateTimeProperty().WithDescription("The date and time when the short link will expire at."))
	s.SetProperty("expiredUrl", *urlProperty("The URL to redirect to when the short link has expired."))
	s.SetProperty("password", *spec.StringProperty().WithDescription("The password required to access the destination URL of the short link.").WithMaxLength(255))
	s.SetProperty("proxy", *spec.BoolProperty().WithDescription("Whether the short link uses Custom Social Media Cards feature."))
	s.SetProperty("title", *spec.StringProperty().WithDescription("The title of the short link generated via the proxy feature.").WithMaxLength(512))
	s.SetProperty("description", *spec.StringProperty().WithDescription("The description of the short link generated via the proxy feature.").WithMaxLength(2000))
	s.SetProperty("image", *urlProperty("The image of the short link generated via the proxy feature."))
	s.SetProperty("rewrite", *spec.BoolProperty().WithDescription("Whether the short link uses link cloaking."))
	s.SetProperty("ios", *urlProperty("The iOS destination URL for the short link for iOS device targeting."))
	s.SetProperty("android", *urlProperty("The Android destination URL for the short link for Android device targeting."))
	s.SetProperty("geo", *spec.MapProperty(spec.StringProperty()).
		WithDescription("Geo targeting information for the short link in JSON format {[COUNTRY]: https://example.com}."))
	return s
}

func linkSchema() *spec.Schema {
	s := &spec.Schema{}
	s.Typed("object", "")
	s.WithDescription("A short link.")
	s.WithRequired("id", "domain", "key", "url", "archived", "expiresAt", "expiredUrl", "password",
		"proxy", "title", "description", "image", "rewrite", "ios", "android", "geo", "publicStats",
		"tagId", "tags", "comments", "shortLink", "qrCode", "utm_source", "utm_medium", "utm_campaign",
		"utm_term", "utm_content", "userId", "projectId", "clicks", "lastClicked", "createdAt", "updatedAt")

	s.SetProperty("id", *spec.StringProperty().WithDescription("The unique ID of the short link."))
	s.SetProperty("domain", *spec.StringProperty().WithDescription("The domain of the short link."))
	s.SetProperty("key", *spec.StringProperty().WithDescription("The short link slug."))
	s.SetProperty("url", *spec.StringProperty().WithDescription("The destination URL of the short link."))
	s.SetProperty("archived", *spec.BoolProperty().WithDescription("Whether the short link is archived."))
	s.SetProperty("expiresAt", *nullable(spec.DateTimeProperty().WithDescription("The date and time when the short link will expire.")))
	s.SetProperty("expiredUrl", *nullable(spec.StringProperty().WithDescription("The URL to redirect to when the short link has expired.")))
	s.SetProperty("password", *nullable(spec.StringProperty().WithDescription("The password required to access the destination URL of the short link.")))
	s.SetProperty("proxy", *spec.BoolProperty().WithDescription("Whether the short link uses Custom Social Media Cards feature."))
	s.SetProperty("title", *nullable(spec.StringProperty().WithDescription("The title of the short link.")))
	s.SetProperty("description", *nullable(spec.StringProperty().WithDescription("The description of the short link.")))
	s.SetProperty("image", *nullable(spec.StringProperty().WithDescription("The image of the short link.")))
	s.SetProperty("rewrite", *spec.BoolProperty().WithDescription("Whether the short link uses link cloaking."))
	s.SetProperty("ios", *nullable(spec.StringProperty().WithDescription("The iOS destination URL for the short link.")))
	s.SetProperty("android", *nullable(spec.StringProperty().WithDescription("The Android destination URL for the short link.")))
	s.SetProperty("geo", *nullable(spec.MapProperty(spec.StringProperty()).WithDescription("Geo targeting information for the short link.")))
	s.SetProperty("publicStats", *spec.BoolProperty().WithDescription("Whether the short link's stats are publicly accessible."))
	tagID := nullable(spec.StringProperty().WithDescription("The unique ID of the tag assigned to the short link. Deprecated: use tags instead."))
	tagID.AddExtension("x-deprecated", true)
	s.SetProperty("tagId", *tagID)
	s.SetProperty("tags", *spec.ArrayProperty(ref(TagName)).WithDescription("The tags assigned to the short link."))
	s.SetProperty("comments", *nullable(spec.StringProperty().WithDescription("The comments for the short link.")))
	s.SetProperty("shortLink", *spec.StringProperty().WithDescription("The full URL of the short link, including the https protocol (e.g. https://sl.ink/try)."))
	s.SetProperty("qrCode", *spec.StringProperty().WithDescription("The full URL of the QR code for the short link."))
	for _, utm := range []string{"source", "medium", "campaign", "term", "content"} {
		s.SetProperty("utm_"+utm, *nullable(spec.StringProperty().WithDescription("The UTM "+utm+" of the short link.")))
	}
	s.SetProperty("userId", *spec.StringProperty().WithDescription("The user ID of the creator of the short link."))
	s.SetProperty("projectId", *spec.StringProperty().WithDescription("The project ID of the short link."))
	s.SetProperty("clicks", *spec.Int64Property().WithDescription("The number of clicks on the short link."))
	s.SetProperty("lastClicked", *nullable(spec.DateTimeProperty().WithDescription("The date and time when the short link was last clicked.")))
	s.SetProperty("createdAt", *spec.DateTimeProperty().WithDescription("The date and time when the short link was created."))
	s.SetProperty("updatedAt", *spec.DateTimeProperty().WithDescription("The date and time when the short link was last updated."))
	return s
}

func tagSchema() *spec.Schema {
	colors := make([]interface{}, len(store.TagColors))
	for i, c := range store.TagColors {
		colors[i] = c
	}

	s := &spec.Schema{}
	s.Typed("object", "")
	s.WithRequired("id", "name", "color")
	s.SetProperty("id", *spec.StringProperty().WithDescription("The unique ID of the tag."))
	s.SetProperty("name", *spec.StringProperty().WithDescription("The name of the tag."))
	s.SetProperty("color", *spec.StringProperty().WithDescription("The color of the tag.").WithEnum(colors...))
	return s
}

func errorSchema() *spec.Schema {
	codes := make([]interface{}, 0, len(apierror.Codes()))
	for _, c := range apierror.Codes() {
		codes = append(codes, string(c))
	}

	detail := &spec.Schema{}
	detail.Typed("object", "")
	detail.WithRequired("code", "message")
	detail.SetProperty("code", *spec.StringProperty().WithDescription("A short code indicating the error code returned.").WithEnum(codes...))
	detail.SetProperty("message", *spec.StringProperty().WithDescription("A human readable error message."))
	detail.SetProperty("doc_url", *spec.StringProperty().WithDescription("A link to our documentation with more details about this error code."))

	s := &spec.Schema{}
	s.Typed("object", "")
	s.WithRequired("error")
	s.SetProperty("error", *detail)
	return s
}
