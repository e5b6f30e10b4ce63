package restapi

import (
	"encoding/json"
	"net/http"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse reports service identity and which optional
// integrations are configured.
type StatusResponse struct {
	Message       string `json:"message"`
	Environment   string `json:"environment"`
	GoogleMapsKey string `json:"google_maps_key"`
}

// statusHandler is the root status endpoint: which build is running
// and whether the external directions integration is configured.
func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	keyStatus := "not set"
	if api.Config.MapsAPIKey != "" {
		keyStatus = "set"
	}

	api.sendJSON(w, r, StatusResponse{
		Message:       "Campus Concierge API is running",
		Environment:   api.Config.Env.String(),
		GoogleMapsKey: keyStatus,
	})
}

// healthHandler verifies the catalog is loaded and the query pipeline
// is wired. Returns 503 until every stage is present.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Catalog == nil || len(api.Catalog.Routes()) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "route catalog not loaded",
		})
		return
	}

	if api.Extractor == nil || api.Planner == nil || api.Resolver == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "starting",
			Detail: "query pipeline not initialized",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}
