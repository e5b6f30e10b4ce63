package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaditya062025S/campus-concierge/internal/logging"
)

// BusQueryRequest is the POST /bus/query body. Origin, when present,
// overrides whatever the extractor pulls out of the query text.
type BusQueryRequest struct {
	Query  string `json:"query"`
	Origin string `json:"origin,omitempty"`
}

// busQueryHandler runs the full pipeline: extract, count the intent,
// plan, answer. It never returns a 5xx for a plannable query; provider
// trouble surfaces inside the answer text instead.
func (api *RestAPI) busQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req BusQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.sendError(w, r, http.StatusBadRequest, "query must not be empty")
		return
	}

	parsed := api.Extractor.Extract(req.Query)
	if req.Origin != "" {
		parsed.Origin = req.Origin
	}

	if api.Metrics != nil {
		api.Metrics.RecordQuery(string(parsed.Intent))
	}

	logging.FromContext(r.Context()).Info("bus query",
		slog.String("intent", string(parsed.Intent)))

	answer := api.Planner.Respond(r.Context(), req.Query, parsed)
	api.sendJSON(w, r, answer)
}
