package nlu

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/aaditya062025S/campus-concierge/internal/catalog"
)

// RuleExtractor classifies queries with ordered regular-expression
// groups. Groups run highest priority first and a slot set by an
// earlier group is never overwritten by a later one.
type RuleExtractor struct {
	catalog *catalog.Catalog
	logger  *slog.Logger

	scheduleRules []*regexp.Regexp
	routeRules    []*regexp.Regexp
	locationRules []*regexp.Regexp
	nextBusRules  []*regexp.Regexp
	addressRule   *regexp.Regexp
	keywords      []placeKeyword
	routeCodes    []string
}

// placeKeyword pairs a trigger word with the place it names. Order
// matters: earlier entries win when several keywords appear.
type placeKeyword struct {
	word  string
	place string
}

var busOnlyPhrases = []string{
	"bus from",
	"bus to",
	"take bus",
	"by bus",
	"using bus",
}

// NewRuleExtractor compiles the rule groups against the catalog's route
// codes so explicit mentions like "CAS" are recognized.
func NewRuleExtractor(cat *catalog.Catalog, logger *slog.Logger) *RuleExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	codes := cat.RouteCodes()
	lower := make([]string, 0, len(codes)+3)
	for _, c := range codes {
		lower = append(lower, strings.ToLower(c))
	}
	// Generic markers count as a bus mention but never extract a code.
	routeWords := strings.Join(append(lower, "bt", "transit", "bus"), "|")

	compile := func(patterns []string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			out = append(out, regexp.MustCompile(strings.ReplaceAll(p, "%ROUTES%", routeWords)))
		}
		return out
	}

	return &RuleExtractor{
		catalog: cat,
		logger:  logger.With(slog.String("component", "rule_extractor")),
		scheduleRules: compile([]string{
			`when.*(next|soonest).*(%ROUTES%)`,
			`(next|when).*(%ROUTES%).*(come|coming|arrive|arriving|schedule)`,
			`i.*am.*at\s+(?P<orig>[\w\s,]+?)\s*[,.]?\s*when.*(%ROUTES%)`,
			`when.*(%ROUTES%).*from\s+(?P<orig>[\w\s,]+)`,
			`(%ROUTES%)\s*(bus\s*)?(schedule|next|when|time)`,
		}),
		routeRules: compile([]string{
			`(quickest|fastest|best).*(route|way).*to\s+(?P<dest>[\w\s,]+)`,
			`(how|way).*(get|go).*to\s+(?P<dest>[\w\s,]+?)\s+from\s+(?P<orig>[\w\s,]+)`,
			`from\s+(?P<orig>[\w\s,]+?)\s+to\s+(?P<dest>[\w\s,]+)`,
			`(how|way).*(get|go).*from\s+(?P<orig>[\w\s,]+?)\s+to\s+(?P<dest>[\w\s,]+)`,
			`(directions|route).*from\s+(?P<orig>[\w\s,]+?)\s+to\s+(?P<dest>[\w\s,]+)`,
			`(how|way).*(get|go|travel).*to\s+(?P<dest>[\w\s,]+)`,
			`(directions|route).*to\s+(?P<dest>[\w\s,]+)`,
			`(travel|go).*from\s+(?P<orig>[\w\s,]+?)\s+to\s+(?P<dest>[\w\s,]+)`,
		}),
		locationRules: compile([]string{
			`i.*am.*(at|in)\s+(?P<orig>[\w\s,]+)`,
			`(currently|right now).*(at|in)\s+(?P<orig>[\w\s,]+)`,
			`from\s+here\s+to\s+(?P<dest>[\w\s,]+)`,
			`at\s+(?P<orig>[\w\s,]+?)\s+right now`,
		}),
		nextBusRules: compile([]string{
			`(next|soonest).*(bus|route).*to\s+(?P<dest>[\w\s,]+)`,
			`when.*(bus|route).*to\s+(?P<dest>[\w\s,]+)`,
			`(next|when).*(bus|route)\s+(?P<dest>[\w\s,]+)`,
		}),
		addressRule: regexp.MustCompile(`\d+\s+[\w\s]+\s+(street|st|road|rd|drive|dr|avenue|ave|way|lane|ln)\b`),
		keywords:    defaultKeywords(),
		routeCodes:  codes,
	}
}

// Extract runs the rule groups in priority order. It always returns a
// result; unmatched text comes back as IntentGeneric with empty slots.
func (e *RuleExtractor) Extract(raw string) ParsedQuery {
	q := strings.ToLower(strings.TrimSpace(raw))
	parsed := ParsedQuery{Intent: IntentGeneric}
	if q == "" {
		return parsed
	}

	// Group 1: explicit bus mention with schedule phrasing.
	for _, re := range e.scheduleRules {
		m := matchNamed(re, q)
		if m == nil {
			continue
		}
		parsed.Intent = IntentNextBus
		fillSlot(&parsed.Origin, m["orig"])
		parsed.BusRoute = e.extractRouteCode(q)
		break
	}

	// Group 2: origin/destination routing phrasing.
	for _, re := range e.routeRules {
		m := matchNamed(re, q)
		if m == nil {
			continue
		}
		parsed.Intent = IntentTransitRoute
		fillSlot(&parsed.Origin, m["orig"])
		fillSlot(&parsed.Destination, m["dest"])
		break
	}

	// Group 3: current-location phrasing promotes a generic query.
	for _, re := range e.locationRules {
		m := matchNamed(re, q)
		if m == nil {
			continue
		}
		if parsed.Intent == IntentGeneric {
			parsed.Intent = IntentTransitRoute
		}
		fillSlot(&parsed.Origin, m["orig"])
		fillSlot(&parsed.Destination, m["dest"])
		break
	}

	// Group 4: generic next-bus phrasing, only when nothing above fired.
	if parsed.Intent == IntentGeneric {
		for _, re := range e.nextBusRules {
			m := matchNamed(re, q)
			if m == nil {
				continue
			}
			parsed.Intent = IntentNextBus
			fillSlot(&parsed.Destination, m["dest"])
			break
		}
	}

	// Group 5: campus landmark keywords with positional hints.
	tokens := strings.Fields(q)
	for _, kw := range e.keywords {
		if !strings.Contains(q, kw.word) {
			continue
		}
		if parsed.Destination == "" &&
			(strings.Contains(q, "to "+kw.word) || inTail(tokens, kw.word, 3)) {
			parsed.Destination = kw.place
		}
		if parsed.Origin == "" &&
			(strings.Contains(q, "from "+kw.word) || strings.Contains(q, "at "+kw.word)) {
			parsed.Origin = kw.place
		}
	}

	// Group 6: street addresses, assigned by the preceding preposition.
	for _, loc := range e.addressRule.FindAllStringIndex(q, -1) {
		addr := strings.TrimSpace(q[loc[0]:loc[1]])
		prefix := q[:loc[0]]
		switch {
		case parsed.Origin == "" && strings.Contains(prefix, "from"):
			parsed.Origin = addr
		case parsed.Destination == "" &&
			(strings.Contains(prefix, "to") || parsed.Intent == IntentTransitRoute):
			parsed.Destination = addr
		}
	}

	// Group 7: phrasing that restricts the answer to bus service only.
	for _, phrase := range busOnlyPhrases {
		if strings.Contains(q, phrase) {
			parsed.BusOnly = true
			break
		}
	}

	parsed.Origin = e.catalog.ResolveAlias(parsed.Origin)
	parsed.Destination = e.catalog.ResolveAlias(parsed.Destination)

	e.logger.Debug("extracted query",
		slog.String("intent", string(parsed.Intent)),
		slog.String("origin", parsed.Origin),
		slog.String("destination", parsed.Destination),
		slog.String("bus_route", parsed.BusRoute),
		slog.Bool("bus_only", parsed.BusOnly))
	return parsed
}

// extractRouteCode scans for a known route code appearing anywhere in
// the text. Codes come from the catalog, so the set is closed.
func (e *RuleExtractor) extractRouteCode(q string) string {
	for _, code := range e.routeCodes {
		if strings.Contains(q, strings.ToLower(code)) {
			return code
		}
	}
	return ""
}

func fillSlot(slot *string, value string) {
	if *slot != "" {
		return
	}
	*slot = strings.TrimSpace(value)
}

// matchNamed returns the named capture groups of re against q, or nil
// when the pattern does not match at all.
func matchNamed(re *regexp.Regexp, q string) map[string]string {
	m := re.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	groups := map[string]string{}
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}
	return groups
}

// inTail reports whether word is one of the last n whitespace tokens.
func inTail(tokens []string, word string, n int) bool {
	start := len(tokens) - n
	if start < 0 {
		start = 0
	}
	for _, t := range tokens[start:] {
		if t == word {
			return true
		}
	}
	return false
}
