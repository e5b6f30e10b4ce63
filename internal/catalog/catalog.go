// Package catalog holds the static transit knowledge base: named campus
// places, bus stops, and fixed-headway bus routes. All tables are loaded
// once at startup, validated, and never mutated afterward, so a single
// Catalog can be shared by any number of concurrent requests.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/rtree"
	"gopkg.in/yaml.v3"

	"github.com/aaditya062025S/campus-concierge/internal/utils"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// Stop is a physical boarding location.
type Stop struct {
	ID   string  `yaml:"id" validate:"required"`
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"latitude"`
	Lon  float64 `yaml:"lon" validate:"longitude"`
}

// OperatingWindow is the daily service window. Hours are [0, 24);
// overnight wraparound is not supported.
type OperatingWindow struct {
	StartHour int `yaml:"start" validate:"gte=0,lt=24"`
	EndHour   int `yaml:"end" validate:"gte=0,lte=24"`
}

// Contains reports whether hour falls inside the window.
func (w OperatingWindow) Contains(hour int) bool {
	return w.StartHour <= hour && hour < w.EndHour
}

// String renders the window as "6:00 - 23:00".
func (w OperatingWindow) String() string {
	return fmt.Sprintf("%d:00 - %d:00", w.StartHour, w.EndHour)
}

// Route is a fixed sequence of stops served at a constant headway. Stop
// order is for display; membership is what the serving logic uses.
type Route struct {
	Code           string          `yaml:"code" validate:"required,uppercase"`
	Name           string          `yaml:"name" validate:"required"`
	Stops          []string        `yaml:"stops" validate:"required,min=1"`
	HeadwayMinutes int             `yaml:"headway_minutes" validate:"gt=0"`
	Window         OperatingWindow `yaml:"operating_hours"`
	Description    string          `yaml:"description"`
}

// PlaceAlias maps a lowercase alias to a canonical street address.
type PlaceAlias struct {
	Alias   string `yaml:"alias" validate:"required,lowercase"`
	Address string `yaml:"address" validate:"required"`
}

// SpecialMatch is a curated substring rule for locations whose phrasing
// never lines up with a stop name, such as street addresses of known
// buildings.
type SpecialMatch struct {
	Contains string `yaml:"contains" validate:"required,lowercase"`
	StopID   string `yaml:"stop" validate:"required"`
}

type catalogFile struct {
	DefaultStop    string         `yaml:"default_stop" validate:"required"`
	Stops          []Stop         `yaml:"stops" validate:"required,min=1,dive"`
	Routes         []Route        `yaml:"routes" validate:"required,min=1,dive"`
	Places         []PlaceAlias   `yaml:"places" validate:"dive"`
	SpecialMatches []SpecialMatch `yaml:"special_matches" validate:"dive"`
}

// Catalog is the immutable knowledge base.
type Catalog struct {
	defaultStop string

	stopsByID    map[string]Stop
	sortedStops  []Stop
	routesByCode map[string]Route
	sortedCodes  []string
	places       map[string]string

	specialMatches []SpecialMatch

	spatial rtree.RTreeG[string]
}

// Load parses and validates the embedded catalog data.
func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog data: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalog data: %w", err)
	}

	c := &Catalog{
		defaultStop:    file.DefaultStop,
		stopsByID:      make(map[string]Stop, len(file.Stops)),
		routesByCode:   make(map[string]Route, len(file.Routes)),
		places:         make(map[string]string, len(file.Places)),
		specialMatches: file.SpecialMatches,
	}

	for _, stop := range file.Stops {
		if _, dup := c.stopsByID[stop.ID]; dup {
			return nil, fmt.Errorf("invalid catalog data: duplicate stop id %q", stop.ID)
		}
		c.stopsByID[stop.ID] = stop
		point := [2]float64{stop.Lon, stop.Lat}
		c.spatial.Insert(point, point, stop.ID)
	}

	c.sortedStops = make([]Stop, 0, len(c.stopsByID))
	for _, stop := range c.stopsByID {
		c.sortedStops = append(c.sortedStops, stop)
	}
	sort.Slice(c.sortedStops, func(i, j int) bool {
		return c.sortedStops[i].ID < c.sortedStops[j].ID
	})

	for _, route := range file.Routes {
		if _, dup := c.routesByCode[route.Code]; dup {
			return nil, fmt.Errorf("invalid catalog data: duplicate route code %q", route.Code)
		}
		if route.Window.StartHour >= route.Window.EndHour {
			return nil, fmt.Errorf("invalid catalog data: route %s operating window starts at or after its end", route.Code)
		}
		for _, stopID := range route.Stops {
			if _, ok := c.stopsByID[stopID]; !ok {
				return nil, fmt.Errorf("invalid catalog data: route %s references unknown stop %q", route.Code, stopID)
			}
		}
		c.routesByCode[route.Code] = route
		c.sortedCodes = append(c.sortedCodes, route.Code)
	}
	sort.Strings(c.sortedCodes)

	for _, place := range file.Places {
		c.places[place.Alias] = place.Address
	}

	for _, sm := range c.specialMatches {
		if _, ok := c.stopsByID[sm.StopID]; !ok {
			return nil, fmt.Errorf("invalid catalog data: special match %q references unknown stop %q", sm.Contains, sm.StopID)
		}
	}
	if _, ok := c.stopsByID[c.defaultStop]; !ok {
		return nil, fmt.Errorf("invalid catalog data: default stop %q is not in the stop table", c.defaultStop)
	}

	return c, nil
}

// ResolveAlias maps a place name to its canonical address. Lookup is
// case-insensitive and exact-key only; unknown names come back unchanged
// so the caller can always proceed.
func (c *Catalog) ResolveAlias(name string) string {
	if name == "" {
		return name
	}
	if address, ok := c.places[strings.ToLower(strings.TrimSpace(name))]; ok {
		return address
	}
	return name
}

// Stop returns the stop with the given id.
func (c *Catalog) Stop(id string) (Stop, bool) {
	stop, ok := c.stopsByID[id]
	return stop, ok
}

// StopName returns the display name for a stop id, or the id itself when
// unknown.
func (c *Catalog) StopName(id string) string {
	if stop, ok := c.stopsByID[id]; ok {
		return stop.Name
	}
	return id
}

// Stops returns every stop ordered by id. The slice is shared; callers
// must not modify it.
func (c *Catalog) Stops() []Stop {
	return c.sortedStops
}

// Route looks up a route by code. Codes are case-insensitive on input
// and canonical uppercase internally.
func (c *Catalog) Route(code string) (Route, bool) {
	route, ok := c.routesByCode[strings.ToUpper(strings.TrimSpace(code))]
	return route, ok
}

// RouteCodes returns the closed set of route codes in sorted order.
func (c *Catalog) RouteCodes() []string {
	return c.sortedCodes
}

// Routes returns all routes ordered by code.
func (c *Catalog) Routes() []Route {
	routes := make([]Route, 0, len(c.sortedCodes))
	for _, code := range c.sortedCodes {
		routes = append(routes, c.routesByCode[code])
	}
	return routes
}

// Serves reports whether the route's stop membership includes stopID.
func (r Route) Serves(stopID string) bool {
	for _, id := range r.Stops {
		if id == stopID {
			return true
		}
	}
	return false
}

// RoutesServing returns the routes whose membership includes stopID, in
// code order.
func (c *Catalog) RoutesServing(stopID string) []Route {
	var serving []Route
	for _, code := range c.sortedCodes {
		if route := c.routesByCode[code]; route.Serves(stopID) {
			serving = append(serving, route)
		}
	}
	return serving
}

// RoutesServingBoth returns the routes serving both stops, in code order.
func (c *Catalog) RoutesServingBoth(originStop, destStop string) []Route {
	var serving []Route
	for _, code := range c.sortedCodes {
		route := c.routesByCode[code]
		if route.Serves(originStop) && route.Serves(destStop) {
			serving = append(serving, route)
		}
	}
	return serving
}

// SpecialMatches returns the curated substring rules in file order.
func (c *Catalog) SpecialMatches() []SpecialMatch {
	return c.specialMatches
}

// DefaultStop is the designated hub returned when nothing else matches.
func (c *Catalog) DefaultStop() string {
	return c.defaultStop
}

// NearestStop returns the stop closest to the given coordinates in
// lat/lon degree space, using the spatial index. Stops are point
// entries, so the leaf distance is the exact Euclidean degree metric.
func (c *Catalog) NearestStop(lat, lon float64) (Stop, bool) {
	point := [2]float64{lon, lat}

	var nearest Stop
	var found bool
	c.spatial.Nearby(
		rtree.BoxDist[float64, string](point, point,
			func(min, _ [2]float64, _ string) float64 {
				return utils.DegreeDistance(lat, lon, min[1], min[0])
			}),
		func(min, max [2]float64, id string, dist float64) bool {
			nearest, found = c.stopsByID[id]
			return false // first item is the closest
		},
	)
	return nearest, found
}
