package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/clock"
	"github.com/aaditya062025S/campus-concierge/internal/maps"
	"github.com/aaditya062025S/campus-concierge/internal/nlu"
	"github.com/aaditya062025S/campus-concierge/internal/resolver"
)

// stubProvider counts calls and serves canned geocode/directions
// results so no test touches the network.
type stubProvider struct {
	geocodeCalls    int
	directionsCalls int
	geocodeMiss     bool
	err             error
	plan            *maps.Plan
}

func (s *stubProvider) Geocode(ctx context.Context, name string) (*maps.Place, error) {
	s.geocodeCalls++
	if s.err != nil {
		return nil, s.err
	}
	if s.geocodeMiss {
		return nil, nil
	}
	return &maps.Place{Name: name, Location: maps.LatLng{Lat: 37.2290, Lng: -80.4140}}, nil
}

func (s *stubProvider) Directions(ctx context.Context, origin, destination maps.LatLng, departure time.Time) (*maps.Plan, error) {
	s.directionsCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.plan, nil
}

func walkingPlan() *maps.Plan {
	return &maps.Plan{
		DurationText: "18 mins",
		Steps: []maps.Step{
			{Mode: maps.ModeWalking, Instruction: "Head north on Drillfield Dr", DistanceText: "0.4 mi"},
			{
				Mode: maps.ModeTransit, Instruction: "Take CAS toward Squires",
				DepartureStop: "Goodwin Hall", DepartureTime: "10:15 AM",
				ArrivalStop: "Squires Student Center", ArrivalTime: "10:22 AM", NumStops: 3,
			},
		},
	}
}

// newPlanner wires a planner against the embedded catalog with a mock
// clock pinned to the given wall time.
func newPlanner(t *testing.T, provider maps.Provider, at time.Time) (*Planner, *clock.MockClock) {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	res := resolver.New(cat, nil, resolver.DefaultOptions(), nil)
	clk := clock.NewMockClock(at)
	return New(cat, res, provider, clk, nil), clk
}

func midMorning() time.Time {
	return time.Date(2026, 8, 29, 10, 7, 0, 0, time.UTC)
}

func TestRespondPlansTransitRoute(t *testing.T) {
	provider := &stubProvider{plan: walkingPlan()}
	p, _ := newPlanner(t, provider, midMorning())

	got := p.Respond(context.Background(), "quickest way from lavery to goodwin", nlu.ParsedQuery{
		Intent:      nlu.IntentTransitRoute,
		Origin:      "460 Old Turner St, Blacksburg, VA 24060",
		Destination: "635 Prices Fork Rd, Blacksburg, VA 24061",
	})

	assert.Contains(t, got.Answer, "Fastest route from 460 Old Turner St")
	// 0.4 mi at 20 min/mile.
	assert.Contains(t, got.Answer, "Walk 0.4 mi (estimated 8 minutes)")
	assert.Contains(t, got.Answer, "Take CAS toward Squires from Goodwin Hall at 10:15 AM")
	// Lavery and Goodwin are both on CAS, so the schedule block rides along.
	assert.Contains(t, got.Answer, "Bus Schedule Information")
	assert.Contains(t, got.Answer, "CAS (Campus Shuttle)")
	assert.Contains(t, got.Answer, "in 8 min")
	assert.Equal(t, []string{sourceMaps, sourceRideBT}, got.Sources)
}

func TestRespondRouteLiveStatus(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.Respond(context.Background(), "when is next CAS bus", nlu.ParsedQuery{
		Intent:   nlu.IntentNextBus,
		BusRoute: "CAS",
	})

	assert.Contains(t, got.Answer, "CAS (Campus Shuttle) - Live Status")
	assert.Contains(t, got.Answer, "Next departure: 10:15 AM (in 8 minutes)")
	assert.Contains(t, got.Answer, "Following departure: 10:30 AM")
	assert.Contains(t, got.Answer, "Frequency: Every 15 minutes")
	assert.Equal(t, []string{sourceLiveMap}, got.Sources)
}

func TestRespondRouteOutsideOperatingHours(t *testing.T) {
	lateNight := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	p, _ := newPlanner(t, nil, lateNight)

	got := p.Respond(context.Background(), "when is next CAS bus", nlu.ParsedQuery{
		Intent:   nlu.IntentNextBus,
		BusRoute: "CAS",
	})

	assert.Contains(t, got.Answer, "is not currently operating")
	assert.Contains(t, got.Answer, "6:00 - 23:00")
}

func TestRouteScheduleUsesNearestStop(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.RouteSchedule(context.Background(), "cas", "goodwin hall")

	assert.Contains(t, got.Answer, "Campus Shuttle Schedule:")
	assert.Contains(t, got.Answer, "Next bus: 10:15 AM (in 8 minutes)")
	assert.Contains(t, got.Answer, "Nearest stop: Goodwin Hall")

	// Without an origin the route's first stop stands in.
	got = p.RouteSchedule(context.Background(), "CAS", "")
	assert.Contains(t, got.Answer, "Nearest stop: Squires Student Center")
}

func TestRouteScheduleUnknownCodeFallsBack(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.RouteSchedule(context.Background(), "ZZZ", "")

	assert.Contains(t, got.Answer, "Active bus routes right now:")
}

func TestPlanTripBusOnlyDirectRoute(t *testing.T) {
	provider := &stubProvider{plan: walkingPlan()}
	p, _ := newPlanner(t, provider, midMorning())

	got := p.PlanTrip(context.Background(),
		"635 Prices Fork Rd, Blacksburg, VA 24061",
		"460 Old Turner St, Blacksburg, VA 24060", true)

	assert.Contains(t, got.Answer, "Bus Routes from 635 Prices Fork Rd")
	assert.Contains(t, got.Answer, "CAS (Campus Shuttle)")
	assert.NotContains(t, got.Answer, "Walk")
	// Bus-only answers never consult the directions provider.
	assert.Zero(t, provider.geocodeCalls)
	assert.Zero(t, provider.directionsCalls)
}

func TestPlanTripBusOnlyNoServingRoute(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	// No route stops at the Perry Street lot.
	got := p.PlanTrip(context.Background(), "perry street parking", "goodwin hall", true)

	assert.Contains(t, got.Answer, "No direct bus routes available from perry street parking to goodwin hall")
}

func TestNextBusListsServingRoutes(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.NextBus(context.Background(), "635 Prices Fork Rd, Blacksburg, VA 24061")

	assert.Contains(t, got.Answer, "Next buses to Goodwin Hall:")
	assert.Contains(t, got.Answer, "🚌 CAS: 10:15 AM (every 15 min)")
	assert.Contains(t, got.Answer, "🚌 HXP: ")
}

func TestNextBusUnservedStopDelegatesToProvider(t *testing.T) {
	provider := &stubProvider{plan: walkingPlan()}
	p, _ := newPlanner(t, provider, midMorning())

	got := p.NextBus(context.Background(), "perry street parking")

	assert.Contains(t, got.Answer, "Fastest route from Virginia Tech, Blacksburg, VA to perry street parking")
	assert.Equal(t, 2, provider.geocodeCalls)
	assert.Equal(t, 1, provider.directionsCalls)
}

func TestETAForLocation(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.ETAForLocation(context.Background(), "squires", "")

	assert.Contains(t, got.Answer, "Next buses at Squires Student Center:")
	assert.Contains(t, got.Answer, "🚌 CAS: 10:15 AM (in 8 minutes)")
	// TTT runs hourly, so at 10:07 the next trolley is 11:00.
	assert.Contains(t, got.Answer, "🚌 TTT: 11:00 AM (in 53 minutes)")
	assert.Contains(t, got.Answer, "You are nearest to: Squires Student Center")
}

func TestETAForLocationRouteFilter(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.ETAForLocation(context.Background(), "goodwin hall", "TCP")
	assert.Contains(t, got.Answer, "TCP bus does not serve Goodwin Hall.")

	got = p.ETAForLocation(context.Background(), "goodwin hall", "cas")
	assert.Contains(t, got.Answer, "🚌 CAS: 10:15 AM")
	assert.NotContains(t, got.Answer, "🚌 HXP")
}

func TestProviderErrorBecomesApology(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream timeout")}
	p, _ := newPlanner(t, provider, midMorning())

	got := p.PlanTrip(context.Background(), "perry street parking", "some far away town", false)

	assert.Contains(t, got.Answer, "Error planning route:")
	assert.Contains(t, got.Answer, "Please try checking Google Maps or RideBT directly.")
	assert.Contains(t, got.Sources, sourceRideBT)
}

func TestGeocodeMissAnswer(t *testing.T) {
	provider := &stubProvider{geocodeMiss: true}
	p, _ := newPlanner(t, provider, midMorning())

	got := p.PlanTrip(context.Background(), "perry street parking", "nowhere in particular", false)

	assert.Contains(t, got.Answer, "Couldn't resolve locations. Origin 'perry street parking', Destination 'nowhere in particular'.")
}

func TestNilProviderStillAnswers(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.NextBus(context.Background(), "perry street parking")

	assert.Contains(t, got.Answer, "Error planning route:")
}

func TestLiveStatusSummary(t *testing.T) {
	earlyMorning := time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC)
	p, _ := newPlanner(t, nil, earlyMorning)

	got := p.LiveStatus(context.Background(), "", "")

	assert.Contains(t, got.Answer, "Live Bus Status - Blacksburg Transit")
	assert.Contains(t, got.Answer, "Currently Operating:")
	assert.Contains(t, got.Answer, "• CAS: Next bus at 06:45 AM (15 min)")
	assert.Contains(t, got.Answer, "Not operating: CRC, HXP, TTT")
	assert.Contains(t, got.Answer, "HDG Stops 1516 & 1517 Closed due to road construction")
	assert.Contains(t, got.Answer, "Popular routes:")
	assert.Contains(t, got.Answer, "Toms Creek (serves most residence halls)")
}

func TestLiveStatusRouteAlert(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.LiveStatus(context.Background(), "HDG", "")

	assert.Contains(t, got.Answer, "HDG (Harding Avenue) - Live Status")
	assert.Contains(t, got.Answer, "⚠️ Alert: HDG Stops 1516 & 1517 Closed")
}

func TestRespondActiveRoutesWhenNothingElseGiven(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	got := p.Respond(context.Background(), "when is the next bus", nlu.ParsedQuery{Intent: nlu.IntentNextBus})

	assert.Contains(t, got.Answer, "Active bus routes right now:")
	assert.Contains(t, got.Answer, "🚌 CAS: Every 15 minutes")
}

func TestRespondNothingOperatingOvernight(t *testing.T) {
	overnight := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)
	p, _ := newPlanner(t, nil, overnight)

	got := p.Respond(context.Background(), "next bus", nlu.ParsedQuery{Intent: nlu.IntentNextBus})

	assert.Equal(t, "No bus routes are currently operating. Most routes run from 6:00 AM to 11:00 PM.", got.Answer)
}

func TestRespondGeneric(t *testing.T) {
	p, _ := newPlanner(t, nil, midMorning())

	// Bus phrasing without structure gets the live summary.
	got := p.Respond(context.Background(), "are any buses running", nlu.ParsedQuery{Intent: nlu.IntentGeneric})
	assert.Contains(t, got.Answer, "Live Bus Status")

	// Anything else gets the clarification prompt.
	got = p.Respond(context.Background(), "asdf qwerty", nlu.ParsedQuery{Intent: nlu.IntentGeneric})
	assert.Contains(t, got.Answer, "Please specify destination")
	assert.Equal(t, []string{sourceMaps, sourceRideBT}, got.Sources)
}

func TestAnnotateWalking(t *testing.T) {
	in := "1. Walk 0.5 mi — Head north\n2. Take CAS toward Squires\n3. Walk 1.2 mi — Head east"
	out := annotateWalking(in)

	assert.Contains(t, out, "Walk 0.5 mi (estimated 10 minutes) — Head north")
	assert.Contains(t, out, "Walk 1.2 mi (estimated 24 minutes) — Head east")
	assert.Contains(t, out, "Take CAS toward Squires")
}
