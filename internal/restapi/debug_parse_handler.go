package restapi

import (
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/aaditya062025S/campus-concierge/internal/logging"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
)

// DebugParseResponse echoes the query alongside its extraction result.
type DebugParseResponse struct {
	Query  string          `json:"query"`
	Parsed nlu.ParsedQuery `json:"parsed"`
}

// debugParseHandler exposes the extractor directly so slot and intent
// decisions can be inspected without going through the planner.
func (api *RestAPI) debugParseHandler(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	parsed := api.Extractor.Extract(query)

	logging.FromContext(r.Context()).Debug("debug parse",
		slog.String("query", query),
		slog.String("result", spew.Sdump(parsed)))

	api.sendJSON(w, r, DebugParseResponse{Query: query, Parsed: parsed})
}
