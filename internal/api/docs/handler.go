package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	openAPIRoute = "/docs/swagger.yaml"
	openAPIFile  = "docs/swagger.yaml"
)

// RegisterRoutes mounts Swagger UI under /docs and serves the gateway's
// OpenAPI document from docs/swagger.yaml relative to the working directory.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})

	r.Get(openAPIRoute, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, openAPIFile)
	})

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL(openAPIRoute),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))
}
