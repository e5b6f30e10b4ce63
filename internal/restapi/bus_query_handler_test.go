package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya062025S/campus-concierge/internal/planner"
)

func postQuery(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestBusQueryRouteStatus(t *testing.T) {
	_, handler := newTestAPI(t)

	w := postQuery(t, handler, "/bus/query", `{"query": "when is next CAS bus"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got planner.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Answer, "CAS (Campus Shuttle) - Live Status")
	assert.Contains(t, got.Answer, "Next departure: 10:15 AM (in 8 minutes)")
	assert.Contains(t, got.Answer, "Following departure: 10:30 AM")
	assert.Contains(t, got.Sources, "https://ridebt.org/live-map")
}

func TestBusQueryBusOnlyTrip(t *testing.T) {
	_, handler := newTestAPI(t)

	w := postQuery(t, handler, "/bus/query", `{"query": "bus from goodwin hall to lavery hall"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got planner.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Answer, "Bus Routes from 635 Prices Fork Rd")
	assert.Contains(t, got.Answer, "CAS (Campus Shuttle)")
}

func TestBusQueryOriginOverride(t *testing.T) {
	_, handler := newTestAPI(t)

	w := postQuery(t, handler, "/bus/query",
		`{"query": "when is next CAS bus", "origin": "goodwin hall"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got planner.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	// Origin without destination keeps the route-status path.
	assert.Contains(t, got.Answer, "Live Status")
}

func TestBusQueryGenericGetsClarification(t *testing.T) {
	_, handler := newTestAPI(t)

	w := postQuery(t, handler, "/ask", `{"query": "asdf qwerty"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got planner.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Answer, "Please specify destination")
}

func TestBusQueryRejectsBadInput(t *testing.T) {
	_, handler := newTestAPI(t)

	w := postQuery(t, handler, "/bus/query", `{"query": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postQuery(t, handler, "/bus/query", `{"query": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "query must not be empty")
}

func TestDebugParseHandler(t *testing.T) {
	_, handler := newTestAPI(t)

	path := "/debug/parse/" + url.PathEscape("when is next CAS bus")
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got DebugParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "when is next CAS bus", got.Query)
	assert.Equal(t, "next_bus", string(got.Parsed.Intent))
	assert.Equal(t, "CAS", got.Parsed.BusRoute)
}

func TestQueryMetricRecorded(t *testing.T) {
	api, handler := newTestAPI(t)

	postQuery(t, handler, "/bus/query", `{"query": "when is next CAS bus"}`)
	postQuery(t, handler, "/bus/query", `{"query": "asdf"}`)

	families, err := api.Metrics.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "concierge_queries_total" {
			found = true
			assert.Len(t, f.GetMetric(), 2) // next_bus and generic
		}
	}
	assert.True(t, found)
}
