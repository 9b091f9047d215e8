package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedRequests counts feed page builds by sort mode and outcome.
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelring_feed_requests_total",
		Help: "Feed requests by sort mode and outcome",
	}, []string{"sort", "outcome"})

	// EnrichmentLookups counts enrichment resolutions by source.
	EnrichmentLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelring_enrichment_lookups_total",
		Help: "Enrichment lookups by source (cache, refetch, stale_fallback, placeholder)",
	}, []string{"source"})

	// FeedLatency observes end-to-end feed build duration.
	FeedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelring_feed_build_seconds",
		Help:    "Feed page build duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// Outcome labels for FeedRequests.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeDegraded = "degraded"
	OutcomeBadInput = "bad_input"
)

// Source labels for EnrichmentLookups.
const (
	SourceCache       = "cache"
	SourceRefetch     = "refetch"
	SourceStale       = "stale_fallback"
	SourcePlaceholder = "placeholder"
)
