package maps

import (
	"context"
	"time"
)

// RequestRecorder receives one observation per upstream call. It is
// satisfied by the metrics package without importing it here.
type RequestRecorder interface {
	RecordProviderRequest(operation string, err error)
}

// InstrumentedProvider wraps a Provider and counts every call.
type InstrumentedProvider struct {
	provider Provider
	recorder RequestRecorder
}

func NewInstrumentedProvider(provider Provider, recorder RequestRecorder) *InstrumentedProvider {
	return &InstrumentedProvider{provider: provider, recorder: recorder}
}

func (p *InstrumentedProvider) Geocode(ctx context.Context, name string) (*Place, error) {
	place, err := p.provider.Geocode(ctx, name)
	p.recorder.RecordProviderRequest("geocode", err)
	return place, err
}

func (p *InstrumentedProvider) Directions(ctx context.Context, origin, destination LatLng, departure time.Time) (*Plan, error) {
	plan, err := p.provider.Directions(ctx, origin, destination, departure)
	p.recorder.RecordProviderRequest("directions", err)
	return plan, err
}
