package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./reelring.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Catalog client configuration
	CatalogBaseURL string `long:"catalog-base-url" env:"CATALOG_BASE_URL" default:"https://api.themoviedb.org/3" description:"Base URL of the external title catalog"`
	CatalogAPIKey  string `long:"catalog-api-key" env:"CATALOG_API_KEY" description:"API key for the external title catalog"`
	CatalogTimeout int    `long:"catalog-timeout" env:"CATALOG_TIMEOUT" default:"5" description:"Per-call timeout for catalog lookups in seconds"`
	Region         string `long:"region" env:"REGION" default:"US" description:"Region code used for streaming availability lookups"`

	// Feed engine tuning
	EnrichmentStaleDays  int `long:"enrichment-stale-days" env:"ENRICHMENT_STALE_DAYS" default:"7" description:"Age in days after which a cached enrichment record becomes fetch-eligible"`
	EnrichmentFanout     int `long:"enrichment-fanout" env:"ENRICHMENT_FANOUT" default:"4" description:"Maximum concurrent catalog lookups per request"`
	EngagementWindowDays int `long:"engagement-window-days" env:"ENGAGEMENT_WINDOW_DAYS" default:"14" description:"Trailing window in days for engagement and group activity counts"`

	// Background task configuration
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background task workers"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Interval between stale enrichment sweeps in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ReelRing/1.0" description:"User agent string for outbound HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:               raw.DBPath,
		Port:                 raw.Port,
		APIAccessKey:         raw.APIAccessKey,
		CatalogBaseURL:       raw.CatalogBaseURL,
		CatalogAPIKey:        raw.CatalogAPIKey,
		CatalogTimeout:       raw.CatalogTimeout,
		Region:               raw.Region,
		EnrichmentStaleDays:  raw.EnrichmentStaleDays,
		EnrichmentFanout:     raw.EnrichmentFanout,
		EngagementWindowDays: raw.EngagementWindowDays,
		WorkerCount:          raw.WorkerCount,
		SchedulerInterval:    time.Duration(raw.SchedulerInterval) * time.Second,
		UserAgent:            raw.UserAgent,
		Timezone:             raw.Timezone,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Used by tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
