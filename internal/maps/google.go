package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/aaditya062025S/campus-concierge/internal/utils"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// GoogleClient talks to the Google Maps web services (Geocoding and
// Directions). One HTTP round trip per call, bounded by the client
// timeout.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewGoogleClient creates a client. baseURL may be empty to use the
// production endpoint; tests point it at a local server.
func NewGoogleClient(apiKey, baseURL string) *GoogleClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GoogleClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Geocode resolves a free-form place name, biased toward US results.
// A miss returns (nil, nil).
func (c *GoogleClient) Geocode(ctx context.Context, name string) (*Place, error) {
	query := url.Values{
		"address": {name},
		"region":  {"us"},
		"key":     {c.apiKey},
	}

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/geocode/json", query, &body); err != nil {
		return nil, err
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return nil, nil
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("geocode status %s", body.Status)
	}

	r := body.Results[0]
	place := &Place{
		Name:     r.FormattedAddress,
		Location: LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		PlaceID:  r.PlaceID,
	}
	if place.Name == "" {
		place.Name = name
	}
	return place, nil
}

// Directions computes a transit itinerary between two coordinates.
func (c *GoogleClient) Directions(ctx context.Context, origin, destination LatLng, departure time.Time) (*Plan, error) {
	query := url.Values{
		"origin":         {formatLatLng(origin)},
		"destination":    {formatLatLng(destination)},
		"mode":           {"transit"},
		"alternatives":   {"false"},
		"departure_time": {strconv.FormatInt(departure.Unix(), 10)},
		"key":            {c.apiKey},
	}

	var body struct {
		Status string `json:"status"`
		Routes []struct {
			Summary string `json:"summary"`
			Legs    []struct {
				Duration      textValue `json:"duration"`
				DepartureTime textValue `json:"departure_time"`
				ArrivalTime   textValue `json:"arrival_time"`
				Steps         []struct {
					TravelMode       string    `json:"travel_mode"`
					HTMLInstructions string    `json:"html_instructions"`
					Duration         textValue `json:"duration"`
					Distance         textValue `json:"distance"`
					Polyline         struct {
						Points string `json:"points"`
					} `json:"polyline"`
					TransitDetails *struct {
						Headsign string `json:"headsign"`
						Line     struct {
							Name      string `json:"name"`
							ShortName string `json:"short_name"`
						} `json:"line"`
						DepartureStop struct {
							Name string `json:"name"`
						} `json:"departure_stop"`
						ArrivalStop struct {
							Name string `json:"name"`
						} `json:"arrival_stop"`
						DepartureTime textValue `json:"departure_time"`
						ArrivalTime   textValue `json:"arrival_time"`
						NumStops      int       `json:"num_stops"`
					} `json:"transit_details"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := c.get(ctx, "/directions/json", query, &body); err != nil {
		return nil, err
	}

	if body.Status == "ZERO_RESULTS" || len(body.Routes) == 0 {
		return &Plan{}, nil
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("directions status %s", body.Status)
	}

	route := body.Routes[0]
	if len(route.Legs) == 0 {
		return &Plan{Summary: route.Summary}, nil
	}
	leg := route.Legs[0]

	plan := &Plan{
		Summary:       route.Summary,
		DurationText:  leg.Duration.Text,
		DepartureTime: leg.DepartureTime.Text,
		ArrivalTime:   leg.ArrivalTime.Text,
	}

	for _, s := range leg.Steps {
		step := Step{
			Mode:         StepMode(s.TravelMode),
			DurationText: s.Duration.Text,
		}
		switch step.Mode {
		case ModeWalking:
			step.Instruction = s.HTMLInstructions
			if step.Instruction == "" {
				step.Instruction = "Walk"
			}
			step.DistanceText = s.Distance.Text
			step.DistanceMeters = polylineLengthMeters(s.Polyline.Points)
		case ModeTransit:
			if td := s.TransitDetails; td != nil {
				line := td.Line.ShortName
				if line == "" {
					line = td.Line.Name
				}
				step.Instruction = fmt.Sprintf("Take %s toward %s", line, td.Headsign)
				step.DepartureStop = td.DepartureStop.Name
				step.ArrivalStop = td.ArrivalStop.Name
				step.DepartureTime = td.DepartureTime.Text
				step.ArrivalTime = td.ArrivalTime.Text
				step.NumStops = td.NumStops
			} else {
				step.Instruction = s.HTMLInstructions
			}
		default:
			step.Instruction = s.HTMLInstructions
		}
		plan.Steps = append(plan.Steps, step)
	}

	return plan, nil
}

func (c *GoogleClient) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("maps request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("maps decode: %w", err)
	}
	return nil
}

// polylineLengthMeters sums segment lengths along an encoded polyline.
// Returns 0 when the polyline is missing or malformed; the distance text
// from the provider is still available in that case.
func polylineLengthMeters(encoded string) float64 {
	if encoded == "" {
		return 0
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil || len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += utils.Distance(coords[i-1][0], coords[i-1][1], coords[i][0], coords[i][1])
	}
	return total
}

func formatLatLng(p LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// textValue is Google's {text, value} pair; only the text is used.
type textValue struct {
	Text string `json:"text"`
}
