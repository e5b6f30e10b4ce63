// test_helper.go wires a fully functional API instance against the
// embedded catalog for handler and middleware tests.
package restapi

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aaditya062025S/campus-concierge/internal/app"
	"github.com/aaditya062025S/campus-concierge/internal/appconf"
	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/clock"
	"github.com/aaditya062025S/campus-concierge/internal/metrics"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
	"github.com/aaditya062025S/campus-concierge/internal/planner"
	"github.com/aaditya062025S/campus-concierge/internal/resolver"
)

// newTestAPI builds a RestAPI with no external provider and a mock
// clock pinned to a mid-morning weekday.
func newTestAPI(t *testing.T) (*RestAPI, http.Handler) {
	t.Helper()
	return newTestAPIWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestAPIWithLogger(t *testing.T, logger *slog.Logger) (*RestAPI, http.Handler) {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 7, 0, 0, time.UTC))
	res := resolver.New(cat, nil, resolver.DefaultOptions(), logger)

	application := &app.Application{
		Config: appconf.Config{
			Port:      4000,
			Env:       appconf.Test,
			RateLimit: 100,
		},
		Logger:    logger,
		Catalog:   cat,
		Resolver:  res,
		Extractor: nlu.NewRuleExtractor(cat, logger),
		Planner:   planner.New(cat, res, nil, clk, logger),
		Clock:     clk,
		Metrics:   metrics.New(),
	}

	api := NewRestAPI(application)
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	handler := api.Handler(mux)
	t.Cleanup(api.Shutdown)

	return api, handler
}
