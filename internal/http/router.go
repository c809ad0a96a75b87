package httpapi

import (
	"expvar"
	"net/http"

	"golang.org/x/time/rate"

	httpopenapi "github.com/medbazaar/pharmacy-catalog/internal/http/openapi"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalog/paginated", app.paginatedHandler)
	mux.HandleFunc("/api/catalog/categories", app.categoriesHandler)
	mux.HandleFunc("/api/catalog/search/suggestions", app.suggestionsHandler)
	mux.HandleFunc("/api/catalog/", app.catalogByIDHandler)
	mux.HandleFunc("/api/legacy/medicines", app.legacyMedicinesHandler)
	mux.HandleFunc("/api/legacy/medicines/", app.legacyMedicineByIDHandler)
	mux.HandleFunc("/api/legacy/all", app.legacyAllHandler)
	mux.HandleFunc("/api/legacy/categories", app.legacyCategoriesHandler)
	mux.HandleFunc("/api/random/med", app.randomMedHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)

	limiter := rate.NewLimiter(rate.Limit(app.Cfg.RateLimitRPS), app.Cfg.RateLimitBurst)
	return WithRequestID(WithRateLimit(limiter, WithLogging(mux)))
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
