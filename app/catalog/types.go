package catalog

import (
	"context"
)

// Title is a catalog lookup result. Providers carries the raw provider
// names as reported by the catalog; normalization to canonical codes
// happens in this package's provider table.
type Title struct {
	Title       string
	ReleaseYear *int
	PosterURL   string
	Providers   []string
}

// Client is the read contract against the external title catalog.
// Implementations are constructed once and reused; they must be safe
// for concurrent use.
type Client interface {
	// Lookup resolves title details and streaming availability for a
	// (media kind, subject, region) triple.
	Lookup(ctx context.Context, mediaKind, subjectID, region string) (*Title, error)
}
