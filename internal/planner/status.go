package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aaditya062025S/campus-concierge/internal/schedule"
)

// serviceAlert is a static rider advisory. Real-time alert feeds are
// out of scope, so the list mirrors the advisories published on the
// transit agency's site.
type serviceAlert struct {
	Routes   []string
	Message  string
	MoreInfo string
}

var serviceAlerts = []serviceAlert{
	{
		Routes:   []string{"HDG"},
		Message:  "HDG Stops 1516 & 1517 Closed due to road construction",
		MoreInfo: "https://ridebt.org/news-alerts/554-hdg-stops-1516-1517-closed",
	},
}

func (a serviceAlert) affects(routeCode string) bool {
	for _, r := range a.Routes {
		if r == routeCode {
			return true
		}
	}
	return false
}

// popularRoutes is the short list surfaced on the general status
// answer for riders who don't know the network yet.
var popularRoutes = []string{
	"Toms Creek (serves most residence halls)",
	"Progress Street (connects to downtown)",
	"University City Boulevard (apartment complexes)",
	"Main Street (downtown shopping)",
}

// LiveStatus reports per-route operating state. With a route code it
// answers for that route alone, including any advisory affecting it;
// without one it summarizes the whole network. An unknown code also
// falls through to the network summary.
func (p *Planner) LiveStatus(ctx context.Context, routeCode, origin string) Answer {
	now := p.clock.Now()

	if routeCode != "" {
		route, ok := p.catalog.Route(routeCode)
		if ok {
			est := schedule.At(route, now)
			if !est.IsOperating {
				return Answer{
					Answer: fmt.Sprintf("🚌 %s (%s) is not currently operating.\nOperating hours: %s",
						route.Code, route.Name, route.Window),
					Sources: []string{sourceLiveMap},
				}
			}

			var b strings.Builder
			fmt.Fprintf(&b, "🚌 %s (%s) - Live Status\n", route.Code, route.Name)
			b.WriteString("Status: Operating\n")
			fmt.Fprintf(&b, "Next departure: %s (in %d minutes)\n",
				schedule.Clock12(est.NextArrival), est.MinutesUntilNext)
			fmt.Fprintf(&b, "Following departure: %s\n", schedule.Clock12(est.FollowingArrival))
			fmt.Fprintf(&b, "Frequency: Every %d minutes\n", route.HeadwayMinutes)
			fmt.Fprintf(&b, "Route: %s\n", route.Description)
			for _, alert := range serviceAlerts {
				if alert.affects(route.Code) {
					fmt.Fprintf(&b, "\n⚠️ Alert: %s", alert.Message)
				}
			}
			return Answer{Answer: b.String(), Sources: []string{sourceLiveMap}}
		}
	}

	var b strings.Builder
	b.WriteString("🚌 Live Bus Status - Blacksburg Transit\n")
	fmt.Fprintf(&b, "Last updated: %s\n\n", schedule.Clock12(now))

	var idle []string
	operatingShown := false
	for _, route := range p.catalog.Routes() {
		est := schedule.At(route, now)
		if !est.IsOperating {
			idle = append(idle, route.Code)
			continue
		}
		if !operatingShown {
			b.WriteString("Currently Operating:\n")
			operatingShown = true
		}
		fmt.Fprintf(&b, "  • %s: Next bus at %s (%d min)\n",
			route.Code, schedule.Clock12(est.NextArrival), est.MinutesUntilNext)
	}
	if len(idle) > 0 {
		fmt.Fprintf(&b, "\nNot operating: %s\n", strings.Join(idle, ", "))
	}

	if len(serviceAlerts) > 0 {
		b.WriteString("\n⚠️ Service Alerts:\n")
		for _, alert := range serviceAlerts {
			fmt.Fprintf(&b, "  • %s\n", alert.Message)
		}
	}

	b.WriteString("\nPopular routes:\n")
	for _, r := range popularRoutes {
		fmt.Fprintf(&b, "  • %s\n", r)
	}

	b.WriteString("\n📱 For real-time tracking, visit: https://ridebt.org/live-map")
	return Answer{Answer: b.String(), Sources: []string{sourceLiveMap}}
}

// activeRoutes is the terse summary used when a next-bus question
// names neither a route, an origin, nor a destination.
func (p *Planner) activeRoutes() Answer {
	now := p.clock.Now()
	var lines []string
	for _, route := range p.catalog.Routes() {
		if schedule.At(route, now).IsOperating {
			lines = append(lines, fmt.Sprintf("🚌 %s: Every %d minutes", route.Code, route.HeadwayMinutes))
		}
	}
	if len(lines) == 0 {
		return Answer{
			Answer:  "No bus routes are currently operating. Most routes run from 6:00 AM to 11:00 PM.",
			Sources: []string{sourceRideBT},
		}
	}
	return Answer{
		Answer:  "Active bus routes right now:\n" + strings.Join(lines, "\n"),
		Sources: []string{sourceRideBT},
	}
}
