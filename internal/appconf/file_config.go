package appconf

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONConfig mirrors the on-disk JSON configuration file. Every field is
// optional; zero values fall back to the flag/env defaults in cmd/api.
type JSONConfig struct {
	Port      int    `json:"port"`
	Env       string `json:"env"`
	Verbose   bool   `json:"verbose"`
	RateLimit int    `json:"rate-limit"`

	MapsAPIKey  string `json:"maps-api-key"`
	MapsBaseURL string `json:"maps-base-url"`

	TokenOverlapThreshold float64 `json:"token-overlap-threshold"`
	MatchFirstToken       *bool   `json:"match-first-token"`
}

// LoadFromFile reads and parses a JSON configuration file.
func LoadFromFile(path string) (*JSONConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg JSONConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *JSONConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative")
	}
	if c.TokenOverlapThreshold < 0 || c.TokenOverlapThreshold > 1 {
		return fmt.Errorf("token-overlap-threshold must be within [0, 1]")
	}
	switch c.Env {
	case "", "development", "test", "production":
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	return nil
}

// ToAppConfig converts the file config into a Config, applying defaults
// for unset fields.
func (c *JSONConfig) ToAppConfig() Config {
	cfg := Config{
		Port:                  c.Port,
		Env:                   EnvFlagToEnvironment(c.Env),
		Verbose:               c.Verbose,
		RateLimit:             c.RateLimit,
		MapsAPIKey:            c.MapsAPIKey,
		MapsBaseURL:           c.MapsBaseURL,
		TokenOverlapThreshold: c.TokenOverlapThreshold,
		MatchFirstToken:       true,
	}
	if cfg.Port == 0 {
		cfg.Port = 4000
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 100
	}
	if cfg.TokenOverlapThreshold == 0 {
		cfg.TokenOverlapThreshold = 0.7
	}
	if c.MatchFirstToken != nil {
		cfg.MatchFirstToken = *c.MatchFirstToken
	}
	return cfg
}
