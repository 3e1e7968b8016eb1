// Package openapi builds the API's Swagger 2.0 document. The document is a
// value assembled once per process and rendered as JSON or YAML.
package openapi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-openapi/spec"
	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"

	"github.com/joestump/shortlinks/internal/build"
)

// BasePath is where the API router is mounted.
const BasePath = "/api"

var (
	docOnce sync.Once
	doc     *spec.Swagger
	docJSON []byte
	docErr  error

	registerOnce sync.Once
)

// Document returns the API document. Callers must not modify it.
func Document() *spec.Swagger {
	load()
	return doc
}

// JSON returns the document encoded as indented JSON.
func JSON() ([]byte, error) {
	load()
	return docJSON, docErr
}

// YAML returns the document encoded as YAML, with keys in the same order as
// the JSON rendering.
func YAML() ([]byte, error) {
	raw, err := JSON()
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("decode openapi json: %w", err)
	}
	resetStyle(&node)
	return yaml.Marshal(&node)
}

// resetStyle drops the flow styles inherited from the JSON input so the
// output uses block YAML.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

func load() {
	docOnce.Do(func() {
		doc = newDocument()
		docJSON, docErr = json.MarshalIndent(doc, "", "  ")
	})
}

func newDocument() *spec.Swagger {
	bearer := spec.APIKeyAuth("Authorization", "header")
	bearer.Description = "Default authentication mechanism. Send \"Bearer <token>\" in the Authorization header."

	return &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger: "2.0",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       "shortlinks API",
			Description: "Link shortening API. Authenticate with an API token.",
			Version:     build.Version,
		}},
		BasePath:    BasePath,
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Paths:       paths(),
		Definitions: definitions(),
		Responses:   errorResponses(),
		SecurityDefinitions: spec.SecurityDefinitions{
			SecurityScheme: bearer,
		},
		Tags: []spec.Tag{spec.NewTag(LinksTag, "Create and look up short links.", nil)},
	}}
}

// swagDoc serves the document to the swag registry read by the Swagger UI.
type swagDoc struct{}

func (swagDoc) ReadDoc() string {
	raw, _ := JSON()
	return string(raw)
}

// Register publishes the document under swag's default instance name. It is
// safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		swag.Register(swag.Name, swagDoc{})
	})
}
