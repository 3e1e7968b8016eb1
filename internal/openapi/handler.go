package openapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Mount serves the document and the Swagger UI on r, which is expected to be
// mounted at BasePath. None of these routes require authentication.
func Mount(r chi.Router) {
	Register()
	r.Get("/openapi.json", serveJSON)
	r.Get("/openapi.yaml", serveYAML)
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func serveJSON(w http.ResponseWriter, r *http.Request) {
	raw, err := JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func serveYAML(w http.ResponseWriter, r *http.Request) {
	raw, err := YAML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(raw)
}
