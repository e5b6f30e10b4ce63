package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaditya062025S/campus-concierge/internal/app"
	"github.com/aaditya062025S/campus-concierge/internal/appconf"
	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/clock"
	"github.com/aaditya062025S/campus-concierge/internal/logging"
	"github.com/aaditya062025S/campus-concierge/internal/maps"
	"github.com/aaditya062025S/campus-concierge/internal/metrics"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
	"github.com/aaditya062025S/campus-concierge/internal/planner"
	"github.com/aaditya062025S/campus-concierge/internal/resolver"
	"github.com/aaditya062025S/campus-concierge/internal/restapi"
)

// BuildApplication assembles the query pipeline from configuration: the
// route catalog, the stop resolver, the rule-based extractor and the
// planner, plus the shared logger, clock and metrics registry.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewLogger(cfg.Verbose)

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load route catalog: %w", err)
	}

	m := metrics.NewWithLogger(logger)
	clk := clock.RealClock{}

	// The mapping provider is optional. Without an API key the planner
	// still answers everything the static catalog can cover.
	var provider maps.Provider
	if cfg.MapsAPIKey != "" {
		provider = maps.NewInstrumentedProvider(
			maps.NewGoogleClient(cfg.MapsAPIKey, cfg.MapsBaseURL), m)
	}

	opts := resolver.DefaultOptions()
	if cfg.TokenOverlapThreshold > 0 {
		opts.TokenOverlapThreshold = cfg.TokenOverlapThreshold
	}
	opts.MatchFirstToken = cfg.MatchFirstToken

	var geocoder resolver.Geocoder
	if provider != nil {
		geocoder = provider
	}
	res := resolver.New(cat, geocoder, opts, logger)

	coreApp := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Catalog:   cat,
		Resolver:  res,
		Extractor: nlu.NewRuleExtractor(cat, logger),
		Planner:   planner.New(cat, res, provider, clk, logger),
		Clock:     clk,
		Metrics:   m,
	}

	return coreApp, nil
}

// CreateServer builds the HTTP server and the API it serves. The caller
// owns both and must call api.Shutdown when done.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	mux := http.NewServeMux()
	api.SetRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv, api
}

// Run starts the server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully with a 30 second drain window.
func Run(coreApp *app.Application, cfg appconf.Config) error {
	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	shutdownErr := make(chan error, 1)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		coreApp.Logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownErr <- srv.Shutdown(ctx)
	}()

	coreApp.Logger.Info("starting server",
		slog.String("addr", srv.Addr),
		slog.String("env", cfg.Env.String()))

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	coreApp.Logger.Info("stopped server", slog.String("addr", srv.Addr))
	return nil
}
