package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aaditya062025S/campus-concierge/internal/appconf"
)

func main() {
	var (
		configFile       string
		port             int
		env              string
		verbose          bool
		rateLimit        int
		overlapThreshold float64
		matchFirstToken  bool
	)

	flag.StringVar(&configFile, "config", "", "Path to JSON configuration file (overrides other flags)")
	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|production)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.IntVar(&rateLimit, "rate-limit", 100, "Requests per second per client, 0 disables limiting")
	flag.Float64Var(&overlapThreshold, "token-overlap-threshold", 0.7, "Minimum token overlap for fuzzy stop matching")
	flag.BoolVar(&matchFirstToken, "match-first-token", true, "Allow first-token stop matching")
	flag.Parse()

	var cfg appconf.Config
	if configFile != "" {
		jsonConfig, err := appconf.LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config file: %v\n", err)
			os.Exit(1)
		}
		cfg = jsonConfig.ToAppConfig()
	} else {
		cfg = appconf.Config{
			Port:                  port,
			Env:                   appconf.EnvFlagToEnvironment(env),
			Verbose:               verbose,
			RateLimit:             rateLimit,
			TokenOverlapThreshold: overlapThreshold,
			MatchFirstToken:       matchFirstToken,
		}
	}

	// The Maps key always comes from the environment so it never lands
	// in shell history or config files checked into a repo.
	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		cfg.MapsAPIKey = key
	}

	coreApp, err := BuildApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building application: %v\n", err)
		os.Exit(1)
	}

	if err := Run(coreApp, cfg); err != nil {
		coreApp.Logger.Error(err.Error())
		os.Exit(1)
	}
}
