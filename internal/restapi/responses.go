package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/aaditya062025S/campus-concierge/internal/logging"
)

// errorModel is the envelope for non-2xx responses.
type errorModel struct {
	Code        int    `json:"code"`
	Text        string `json:"text"`
	CurrentTime int64  `json:"currentTime"`
}

func (api *RestAPI) sendJSON(w http.ResponseWriter, r *http.Request, v any) {
	setJSONResponseType(&w)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	setJSONResponseType(&w)
	w.WriteHeader(code)

	response := errorModel{
		Code:        code,
		Text:        message,
		CurrentTime: api.Clock.NowUnixMilli(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "request failed", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
