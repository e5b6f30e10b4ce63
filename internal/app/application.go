package app

import (
	"log/slog"

	"github.com/aaditya062025S/campus-concierge/internal/appconf"
	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/clock"
	"github.com/aaditya062025S/campus-concierge/internal/metrics"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
	"github.com/aaditya062025S/campus-concierge/internal/planner"
	"github.com/aaditya062025S/campus-concierge/internal/resolver"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: configuration, the loaded catalog, the query
// pipeline stages, and the shared clock, logger, and metrics.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Catalog   *catalog.Catalog
	Resolver  *resolver.Resolver
	Extractor nlu.Extractor
	Planner   *planner.Planner
	Clock     clock.Clock
	Metrics   *metrics.Metrics
}
