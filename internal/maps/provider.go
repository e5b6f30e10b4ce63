// Package maps wraps the external geocoding and transit-directions
// capability. The planner depends only on the Provider interface; the
// Google web-service client is the production implementation and tests
// substitute stubs.
package maps

import (
	"context"
	"time"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Place is a resolved place name.
type Place struct {
	Name     string
	Location LatLng
	PlaceID  string
}

// StepMode distinguishes walking legs from transit legs.
type StepMode string

const (
	ModeWalking StepMode = "WALKING"
	ModeTransit StepMode = "TRANSIT"
)

// Step is one leg of an itinerary.
type Step struct {
	Mode         StepMode
	Instruction  string
	DurationText string

	// Walking legs.
	DistanceText   string
	DistanceMeters float64 // measured along the step geometry

	// Transit legs.
	DepartureStop string
	ArrivalStop   string
	DepartureTime string
	ArrivalTime   string
	NumStops      int
}

// Plan is a computed itinerary. Empty Steps means no route was found.
type Plan struct {
	Summary       string
	DurationText  string
	DepartureTime string
	ArrivalTime   string
	Steps         []Step
}

// Provider is the external mapping capability. Geocode returns
// (nil, nil) when the place is simply not found; errors are reserved for
// transport and protocol failures. Both calls are single attempts with a
// bounded timeout and no retry.
type Provider interface {
	Geocode(ctx context.Context, name string) (*Place, error)
	Directions(ctx context.Context, origin, destination LatLng, departure time.Time) (*Plan, error)
}
