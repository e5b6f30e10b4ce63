// Package restapi exposes the concierge over HTTP: the query endpoints,
// a parse-debugging endpoint, health and status checks, Prometheus
// metrics, and the middleware chain they all share.
package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aaditya062025S/campus-concierge/internal/app"
)

// RestAPI holds the handlers' shared dependencies.
type RestAPI struct {
	*app.Application

	rateLimiter *RateLimitMiddleware
}

func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{Application: application}
}

// SetRoutes registers all endpoints and wraps them in the middleware
// chain: request ID, request logging, metrics, CORS, rate limiting.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/status", api.statusHandler)
	mux.HandleFunc("GET /v1/healthcheck", api.healthHandler)
	mux.HandleFunc("POST /bus/query", api.busQueryHandler)
	mux.HandleFunc("POST /ask", api.busQueryHandler)
	mux.HandleFunc("GET /debug/parse/{query}", api.debugParseHandler)

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Handler wraps mux in the full middleware chain, outermost first.
func (api *RestAPI) Handler(mux *http.ServeMux) http.Handler {
	api.rateLimiter = NewRateLimitMiddleware(api.Config.RateLimit, api.Clock)

	var handler http.Handler = mux
	handler = api.rateLimiter.Handler()(handler)
	handler = CORSMiddleware(handler)
	handler = MetricsHandler(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

// Shutdown stops background middleware work.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
