// Package nlu turns free-text transit questions into structured queries.
// The default implementation is an ordered rule engine; Extractor is an
// interface so a hosted-model parser can be dropped in behind the same
// contract.
package nlu

// Intent is the coarse classification of a query. It decides which
// orchestration path answers it.
type Intent string

const (
	IntentGeneric      Intent = "generic"
	IntentTransitRoute Intent = "transit_route"
	IntentNextBus      Intent = "next_bus"
)

// ParsedQuery is the extraction result. Origin and Destination are
// canonical addresses when the place is known, otherwise the raw text
// span. Empty strings mean the slot was not found.
type ParsedQuery struct {
	Intent      Intent `json:"intent"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	BusRoute    string `json:"bus_route,omitempty"`
	BusOnly     bool   `json:"bus_only"`
}

// Extractor maps raw query text to a ParsedQuery. Implementations never
// fail: text that matches nothing yields IntentGeneric with empty slots.
type Extractor interface {
	Extract(raw string) ParsedQuery
}
