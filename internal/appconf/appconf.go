// Package appconf holds application-level configuration shared between
// the API server and the planning engine.
package appconf

// Environment indicates where the application is running.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env flag value to an Environment.
// Unknown values map to Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config is the application configuration.
type Config struct {
	Port      int
	Env       Environment
	Verbose   bool
	RateLimit int // requests per second per client

	// External mapping provider. An empty API key disables the provider;
	// the planner then answers from the static catalog only.
	MapsAPIKey  string
	MapsBaseURL string

	// Stop-resolution tuning. These mirror the empirically tuned matching
	// heuristics and are configurable rather than hard-coded.
	TokenOverlapThreshold float64
	MatchFirstToken       bool
}
