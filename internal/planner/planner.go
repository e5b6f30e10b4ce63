// Package planner turns parsed transit queries into answers. It owns
// the dispatch over intents, composes catalog schedules with the
// external directions provider, and absorbs provider failures so every
// question still gets a usable answer.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/clock"
	"github.com/aaditya062025S/campus-concierge/internal/maps"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
	"github.com/aaditya062025S/campus-concierge/internal/resolver"
	"github.com/aaditya062025S/campus-concierge/internal/schedule"
	"github.com/aaditya062025S/campus-concierge/internal/utils"
)

const (
	sourceRideBT  = "https://ridebt.org/"
	sourceLiveMap = "https://ridebt.org/live-map"
	sourceMaps    = "https://maps.google.com"

	// DefaultOrigin stands in when a query names no starting point.
	DefaultOrigin = "Virginia Tech, Blacksburg, VA"

	walkingMinutesPerMile = 20
)

// Answer is the stable response contract: formatted text plus the
// citation URLs it was built from.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Planner answers parsed queries. The directions provider may be nil,
// in which case provider-backed paths degrade to an apology answer.
type Planner struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	provider maps.Provider
	clock    clock.Clock
	logger   *slog.Logger
}

func New(cat *catalog.Catalog, res *resolver.Resolver, provider maps.Provider, clk clock.Clock, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		catalog:  cat,
		resolver: res,
		provider: provider,
		clock:    clk,
		logger:   logger.With(slog.String("component", "planner")),
	}
}

// Respond dispatches a parsed query to the right answer path. raw is
// the original query text, consulted only for generic-intent bus
// phrasing. Respond never fails; the worst outcome is an apology.
func (p *Planner) Respond(ctx context.Context, raw string, parsed nlu.ParsedQuery) Answer {
	switch {
	case parsed.Intent == nlu.IntentTransitRoute && parsed.Destination != "":
		origin := parsed.Origin
		if origin == "" {
			origin = DefaultOrigin
		}
		return p.PlanTrip(ctx, origin, parsed.Destination, parsed.BusOnly)

	case parsed.Intent == nlu.IntentNextBus:
		switch {
		case parsed.BusRoute != "" && parsed.Destination == "":
			return p.LiveStatus(ctx, parsed.BusRoute, parsed.Origin)
		case parsed.BusRoute != "":
			return p.RouteSchedule(ctx, parsed.BusRoute, parsed.Origin)
		case parsed.Destination != "":
			return p.NextBus(ctx, parsed.Destination)
		case parsed.Origin != "":
			return p.ETAForLocation(ctx, parsed.Origin, "")
		default:
			return p.activeRoutes()
		}

	case mentionsBuses(raw):
		return p.LiveStatus(ctx, "", "")
	}

	return Answer{
		Answer: "Please specify destination (and origin if needed). " +
			"Try asking 'What's the quickest way from Lavery Hall to Goodwin Hall?' " +
			"or 'When is the next bus to Goodwin Hall?'",
		Sources: []string{sourceMaps, sourceRideBT},
	}
}

func mentionsBuses(raw string) bool {
	q := strings.ToLower(raw)
	for _, word := range []string{"buses", "bus", "running", "live", "status", "routes"} {
		if strings.Contains(q, word) {
			return true
		}
	}
	return false
}

// RouteSchedule answers "when is the next <route> bus". An unknown
// route code falls back to the active-routes summary.
func (p *Planner) RouteSchedule(ctx context.Context, routeCode, origin string) Answer {
	route, ok := p.catalog.Route(routeCode)
	if !ok {
		return p.activeRoutes()
	}

	est := schedule.At(route, p.clock.Now())
	if !est.IsOperating {
		return Answer{
			Answer:  fmt.Sprintf("%s is not currently operating. Service hours: %s", route.Name, route.Window),
			Sources: []string{sourceRideBT},
		}
	}

	stopID := route.Stops[0]
	if origin != "" {
		stopID = p.resolver.FindNearestStop(ctx, origin)
	}

	answer := fmt.Sprintf("%s Schedule:\n"+
		"🚌 Next bus: %s (in %d minutes)\n"+
		"🚌 Following bus: %s\n"+
		"📍 Nearest stop: %s\n"+
		"⏱️ Frequency: Every %d minutes",
		route.Name,
		schedule.Clock12(est.NextArrival), est.MinutesUntilNext,
		schedule.Clock12(est.FollowingArrival),
		p.catalog.StopName(stopID),
		route.HeadwayMinutes)
	return Answer{Answer: answer, Sources: []string{sourceRideBT, sourceMaps}}
}

// NextBus answers "next bus to <destination>" when no explicit route or
// origin was given. Destinations no route serves are handed to the
// directions provider instead.
func (p *Planner) NextBus(ctx context.Context, destination string) Answer {
	destStop := p.resolver.FindNearestStop(ctx, destination)
	serving := p.catalog.RoutesServing(destStop)
	if len(serving) == 0 {
		return p.planProvider(ctx, DefaultOrigin, destination)
	}

	now := p.clock.Now()
	var lines []string
	for _, route := range serving {
		est := schedule.At(route, now)
		if !est.IsOperating {
			continue
		}
		lines = append(lines, fmt.Sprintf("🚌 %s: %s (every %d min)",
			route.Code, schedule.Clock12(est.NextArrival), route.HeadwayMinutes))
	}

	if len(lines) == 0 {
		return Answer{
			Answer:  fmt.Sprintf("No buses currently running to %s. Consider walking or other transportation.", destination),
			Sources: []string{sourceRideBT, sourceMaps},
		}
	}
	return Answer{
		Answer:  fmt.Sprintf("Next buses to %s:\n%s", p.catalog.StopName(destStop), strings.Join(lines, "\n")),
		Sources: []string{sourceRideBT, sourceMaps},
	}
}

// ETAForLocation lists upcoming arrivals at the stop nearest origin.
// routeFilter narrows the listing to one route when non-empty.
func (p *Planner) ETAForLocation(ctx context.Context, origin, routeFilter string) Answer {
	stopID := p.resolver.FindNearestStop(ctx, origin)
	stopName := p.catalog.StopName(stopID)

	serving := p.catalog.RoutesServing(stopID)
	if len(serving) == 0 {
		return Answer{
			Answer:  fmt.Sprintf("No bus routes currently serve %s. Try a different location.", stopName),
			Sources: []string{sourceRideBT},
		}
	}

	if routeFilter != "" {
		code := strings.ToUpper(routeFilter)
		filtered := serving[:0]
		for _, route := range serving {
			if route.Code == code {
				filtered = append(filtered, route)
			}
		}
		if len(filtered) == 0 {
			return Answer{
				Answer:  fmt.Sprintf("%s bus does not serve %s.", code, stopName),
				Sources: []string{sourceRideBT},
			}
		}
		serving = filtered
	}

	now := p.clock.Now()
	lines := make([]string, 0, len(serving))
	for _, route := range serving {
		est := schedule.At(route, now)
		if !est.IsOperating {
			lines = append(lines, fmt.Sprintf("🚌 %s: Not operating (runs %s)", route.Code, route.Window))
			continue
		}
		lines = append(lines, fmt.Sprintf("🚌 %s: %s (in %d minutes)",
			route.Code, schedule.Clock12(est.NextArrival), est.MinutesUntilNext))
	}

	answer := fmt.Sprintf("Next buses at %s:\n%s\n\n📍 You are nearest to: %s",
		stopName, strings.Join(lines, "\n"), stopName)
	return Answer{Answer: answer, Sources: []string{sourceRideBT, sourceMaps}}
}

// busStatus classifies what busScheduleBetween found.
type busStatus int

const (
	busFound busStatus = iota
	busNoneOperating
	busNoRoutes
)

// busScheduleBetween builds the catalog-backed schedule block for a
// trip. Routes serving both stops are preferred; failing that, routes
// serving at least the origin.
func (p *Planner) busScheduleBetween(ctx context.Context, origin, destination string) (string, busStatus) {
	originStop := p.resolver.FindNearestStop(ctx, origin)
	destStop := p.resolver.FindNearestStop(ctx, destination)

	serving := p.catalog.RoutesServingBoth(originStop, destStop)
	if len(serving) == 0 {
		serving = p.catalog.RoutesServing(originStop)
	}
	if len(serving) == 0 {
		return "", busNoRoutes
	}

	now := p.clock.Now()
	var lines []string
	for _, route := range serving {
		est := schedule.At(route, now)
		if !est.IsOperating {
			continue
		}
		lines = append(lines, fmt.Sprintf("   🚌 %s (%s):\n"+
			"      Next bus: %s (in %d min)\n"+
			"      Following: %s\n"+
			"      Frequency: Every %d minutes",
			route.Code, route.Name,
			schedule.Clock12(est.NextArrival), est.MinutesUntilNext,
			schedule.Clock12(est.FollowingArrival),
			route.HeadwayMinutes))
	}
	if len(lines) == 0 {
		return "", busNoneOperating
	}

	header := fmt.Sprintf("📍 From %s to %s:\n",
		p.catalog.StopName(originStop), p.catalog.StopName(destStop))
	return header + strings.Join(lines, "\n"), busFound
}

// PlanTrip answers origin-to-destination routing. busOnly suppresses
// walking directions entirely and reports plainly when no single route
// connects the two stops.
func (p *Planner) PlanTrip(ctx context.Context, origin, destination string, busOnly bool) Answer {
	busInfo, status := p.busScheduleBetween(ctx, origin, destination)

	if busOnly {
		if status == busFound {
			return Answer{
				Answer:  fmt.Sprintf("🚌 Bus Routes from %s to %s:\n\n%s", origin, destination, busInfo),
				Sources: []string{sourceLiveMap, sourceMaps},
			}
		}
		return Answer{
			Answer: fmt.Sprintf("🚌 No direct bus routes available from %s to %s.\n\n"+
				"Consider walking or using a combination of bus and walking.", origin, destination),
			Sources: []string{sourceRideBT, sourceMaps},
		}
	}

	basic := p.planProvider(ctx, origin, destination)
	enhanced := annotateWalking(basic.Answer)
	if status == busFound {
		enhanced += fmt.Sprintf("\n\n🚌 Bus Schedule Information:\n%s", busInfo)
	}
	return Answer{Answer: enhanced, Sources: basic.Sources}
}

// planProvider asks the external directions provider for a transit
// plan. Every failure mode comes back as an answer, never an error.
func (p *Planner) planProvider(ctx context.Context, origin, destination string) Answer {
	if p.provider == nil {
		return p.errorAnswer(fmt.Errorf("no directions provider configured"))
	}

	orig, err := p.provider.Geocode(ctx, origin)
	if err != nil {
		return p.errorAnswer(err)
	}
	dest, err := p.provider.Geocode(ctx, destination)
	if err != nil {
		return p.errorAnswer(err)
	}
	if orig == nil || dest == nil {
		return Answer{
			Answer:  fmt.Sprintf("Couldn't resolve locations. Origin '%s', Destination '%s'.", origin, destination),
			Sources: []string{sourceMaps, sourceRideBT},
		}
	}

	plan, err := p.provider.Directions(ctx, orig.Location, dest.Location, p.clock.Now())
	if err != nil {
		return p.errorAnswer(err)
	}
	if plan == nil || len(plan.Steps) == 0 {
		return Answer{
			Answer:  fmt.Sprintf("No current transit route from %s to %s. Try checking Google Maps transit.", origin, destination),
			Sources: []string{sourceMaps, sourceRideBT},
		}
	}

	lines := []string{fmt.Sprintf("Fastest route from %s to %s (~%s):", origin, destination, plan.DurationText)}
	for i, step := range plan.Steps {
		if step.Mode == maps.ModeWalking {
			lines = append(lines, fmt.Sprintf("%d. Walk %s — %s", i+1, walkDistance(step), step.Instruction))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s from %s at %s → %s at %s (%d stops)",
			i+1, step.Instruction,
			step.DepartureStop, step.DepartureTime,
			step.ArrivalStop, step.ArrivalTime,
			step.NumStops))
	}
	return Answer{Answer: strings.Join(lines, "\n"), Sources: []string{sourceMaps, sourceRideBT}}
}

// walkDistance prefers the provider's distance text, falling back to
// miles derived from the step's decoded polyline length.
func walkDistance(step maps.Step) string {
	if step.DistanceText != "" {
		return step.DistanceText
	}
	if step.DistanceMeters > 0 {
		return fmt.Sprintf("%.1f mi", step.DistanceMeters/utils.MetersPerMile)
	}
	return "a short distance"
}

func (p *Planner) errorAnswer(err error) Answer {
	p.logger.Error("route planning failed", slog.String("error", err.Error()))
	return Answer{
		Answer:  fmt.Sprintf("Error planning route: %v. Please try checking Google Maps or RideBT directly.", err),
		Sources: []string{sourceMaps, sourceRideBT},
	}
}

var walkPattern = regexp.MustCompile(`Walk ([\d.]+) mi`)

// annotateWalking appends an estimated duration to each walking line,
// assuming an average pace of 20 minutes per mile.
func annotateWalking(text string) string {
	return walkPattern.ReplaceAllStringFunc(text, func(match string) string {
		miles, err := strconv.ParseFloat(walkPattern.FindStringSubmatch(match)[1], 64)
		if err != nil {
			return match
		}
		return fmt.Sprintf("%s (estimated %d minutes)", match, int(miles*walkingMinutesPerMile))
	})
}
