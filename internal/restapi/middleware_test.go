package restapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya062025S/campus-concierge/internal/clock"
)

func TestHandlerLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	_, handler := newTestAPIWithLogger(t, logger)

	req := httptest.NewRequest(http.MethodPost, "/bus/query",
		strings.NewReader(`{"query": "when is next CAS bus"}`))
	req.Header.Set("X-Request-ID", "trace-me-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var queryLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "bus query") {
			queryLine = line
		}
	}
	require.NotEmpty(t, queryLine, "handler should log the query")
	assert.Contains(t, queryLine, "request_id=trace-me-42")
}

func TestRequestIDMinted(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDPreserved(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", w.Header().Get("X-Request-ID"))
}

func TestRequestIDInvalidReplaced(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces!")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "bad id with spaces!", got)
}

func TestCORSPreflight(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/bus/query", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitBlocksBurst(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimitMiddleware(1, clk)
	defer rl.Stop()

	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.RemoteAddr = "10.0.0.1:51000"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitPerClient(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimitMiddleware(1, clk)
	defer rl.Stop()

	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	first.RemoteAddr = "10.0.0.1:51000"
	second := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	second.RemoteAddr = "10.0.0.2:51000"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)

	// A different client gets its own limiter.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitCleanupEvictsIdleClients(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimitMiddleware(10, clk)
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")

	rl.mu.RLock()
	assert.Len(t, rl.limiters, 2)
	rl.mu.RUnlock()

	clk.Advance(11 * time.Minute)
	rl.cleanupOnce()

	rl.mu.RLock()
	assert.Empty(t, rl.limiters)
	rl.mu.RUnlock()
}

func TestRateLimitDisabled(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimitMiddleware(0, clk)
	defer rl.Stop()

	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.RemoteAddr = "10.0.0.1:51000"
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}
