// Package resolver maps free-form location strings to known transit
// stops. Campus phrasing is irregular (building nicknames, partial
// addresses, "campus", "vt"), so matching is layered: cheap
// deterministic text matches run first and an external geocode is the
// last resort before the default hub.
package resolver

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/aaditya062025S/campus-concierge/internal/catalog"
	"github.com/aaditya062025S/campus-concierge/internal/maps"
)

// Geocoder is the slice of the mapping provider the resolver needs.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*maps.Place, error)
}

// Options tunes the text-matching heuristics. The defaults reproduce the
// tuning that was calibrated against the Blacksburg stop list; they are
// options rather than constants because that calibration is not a
// general algorithmic requirement.
type Options struct {
	// TokenOverlapThreshold is the fraction of input tokens that must
	// appear in a stop name for an overlap match.
	TokenOverlapThreshold float64
	// MatchFirstToken accepts a stop when the input's first token appears
	// among the stop name's tokens.
	MatchFirstToken bool
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{TokenOverlapThreshold: 0.7, MatchFirstToken: true}
}

// Resolver finds the best-matching stop for a location string. It is
// total: every input resolves to some stop id.
type Resolver struct {
	catalog  *catalog.Catalog
	geocoder Geocoder
	opts     Options
	logger   *slog.Logger
}

// New creates a Resolver. geocoder may be nil, in which case the
// geocoding layer is skipped.
func New(cat *catalog.Catalog, geocoder Geocoder, opts Options, logger *slog.Logger) *Resolver {
	if opts.TokenOverlapThreshold <= 0 || opts.TokenOverlapThreshold > 1 {
		opts.TokenOverlapThreshold = DefaultOptions().TokenOverlapThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		catalog:  cat,
		geocoder: geocoder,
		opts:     opts,
		logger:   logger.With(slog.String("component", "stop_resolver")),
	}
}

// FindNearestStop resolves a location string to a stop id. Layers, first
// hit wins: exact name, substring either direction, first-token,
// token overlap, curated substring table, geocode plus nearest stop,
// and finally the default hub. It never fails.
func (r *Resolver) FindNearestStop(ctx context.Context, location string) string {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return r.catalog.DefaultStop()
	}

	if id, ok := r.matchExact(needle); ok {
		return id
	}
	if id, ok := r.matchSubstring(needle); ok {
		return id
	}
	if r.opts.MatchFirstToken {
		if id, ok := r.matchFirstToken(needle); ok {
			return id
		}
	}
	if id, ok := r.matchTokenOverlap(needle); ok {
		return id
	}
	if id, ok := r.matchSpecial(needle); ok {
		return id
	}
	if id, ok := r.matchGeocoded(ctx, location); ok {
		return id
	}

	r.logger.Debug("no match, using default hub", slog.String("location", location))
	return r.catalog.DefaultStop()
}

func (r *Resolver) matchExact(needle string) (string, bool) {
	for _, stop := range r.catalog.Stops() {
		if strings.ToLower(stop.Name) == needle {
			return stop.ID, true
		}
	}
	return "", false
}

func (r *Resolver) matchSubstring(needle string) (string, bool) {
	for _, stop := range r.catalog.Stops() {
		name := strings.ToLower(stop.Name)
		if strings.Contains(needle, name) || strings.Contains(name, needle) {
			return stop.ID, true
		}
	}
	return "", false
}

func (r *Resolver) matchFirstToken(needle string) (string, bool) {
	tokens := strings.Fields(needle)
	if len(tokens) == 0 {
		return "", false
	}
	first := tokens[0]
	for _, stop := range r.catalog.Stops() {
		for _, word := range strings.Fields(strings.ToLower(stop.Name)) {
			if word == first {
				return stop.ID, true
			}
		}
	}
	return "", false
}

func (r *Resolver) matchTokenOverlap(needle string) (string, bool) {
	tokens := tokenSet(needle)
	if len(tokens) == 0 {
		return "", false
	}
	required := math.Max(1, float64(len(tokens))*r.opts.TokenOverlapThreshold)

	for _, stop := range r.catalog.Stops() {
		overlap := 0
		for word := range tokenSet(strings.ToLower(stop.Name)) {
			if tokens[word] {
				overlap++
			}
		}
		if float64(overlap) >= required {
			return stop.ID, true
		}
	}
	return "", false
}

func (r *Resolver) matchSpecial(needle string) (string, bool) {
	for _, sm := range r.catalog.SpecialMatches() {
		if strings.Contains(needle, sm.Contains) {
			return sm.StopID, true
		}
	}
	return "", false
}

func (r *Resolver) matchGeocoded(ctx context.Context, location string) (string, bool) {
	if r.geocoder == nil {
		return "", false
	}

	place, err := r.geocoder.Geocode(ctx, location)
	if err != nil {
		r.logger.Warn("geocode failed", slog.String("location", location), slog.Any("error", err))
		return "", false
	}
	if place == nil {
		return "", false
	}

	stop, ok := r.catalog.NearestStop(place.Location.Lat, place.Location.Lng)
	if !ok {
		return "", false
	}
	return stop.ID, true
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		set[word] = true
	}
	return set
}
