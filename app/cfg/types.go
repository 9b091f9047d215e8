package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port         string
	APIAccessKey string

	// Catalog client configuration
	CatalogBaseURL string
	CatalogAPIKey  string
	CatalogTimeout int
	Region         string

	// Feed engine tuning
	EnrichmentStaleDays  int
	EnrichmentFanout     int
	EngagementWindowDays int

	// Background task configuration
	WorkerCount       int
	SchedulerInterval time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
