package httpapi

import (
	"expvar"
	"net/http"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/render", app.renderHandler)
	mux.HandleFunc("/recipes/inspect", app.inspectHandler)
	mux.HandleFunc("/recipes/warm", app.warmHandler)
	mux.HandleFunc("/recipes/cache", app.cacheHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.Handle("/metrics", obs.MetricsHandler())
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(WithRecover(mux)))
}
