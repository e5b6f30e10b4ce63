// Package schedule derives arrival estimates from fixed-headway route
// data. This is an estimation model, not vehicle tracking: it assumes
// perfectly periodic service anchored to the top of the hour.
package schedule

import (
	"time"

	"github.com/aaditya062025S/campus-concierge/internal/catalog"
)

// Estimate is the arrival forecast for one route at one instant. It is
// derived from the current time on every request and never cached.
type Estimate struct {
	RouteCode        string
	IsOperating      bool
	MinutesUntilNext int
	NextArrival      time.Time
	FollowingArrival time.Time
}

// At computes the estimate for a route at the given time.
//
// A route operates when the hour falls inside its window. When the
// current minute lands exactly on a headway boundary the bus is reported
// a full headway out, never "arriving now": minutes-until-next is always
// in [1, headway].
func At(route catalog.Route, at time.Time) Estimate {
	if !route.Window.Contains(at.Hour()) {
		return Estimate{RouteCode: route.Code}
	}

	headway := route.HeadwayMinutes
	minutesUntilNext := headway - (at.Minute() % headway)
	next := at.Add(time.Duration(minutesUntilNext) * time.Minute)

	return Estimate{
		RouteCode:        route.Code,
		IsOperating:      true,
		MinutesUntilNext: minutesUntilNext,
		NextArrival:      next,
		FollowingArrival: next.Add(time.Duration(headway) * time.Minute),
	}
}

// Clock12 formats a time the way riders read it, e.g. "03:47 PM".
func Clock12(t time.Time) string {
	return t.Format("03:04 PM")
}
