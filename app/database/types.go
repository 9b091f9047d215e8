package database

import (
	"time"
)

// Post is a raw post row as stored, joined with the author's display name.
type Post struct {
	ID         string
	CircleID   string
	UserID     string
	AuthorName string
	MediaKind  string // movie or series
	SubjectID  string // external catalog identifier
	Rating     *int   // 1-5, nil when the post carries no rating
	Comment    string
	CreatedAt  time.Time
}

// EngagementEvent is a single like or comment on a post within the
// trailing engagement window.
type EngagementEvent struct {
	PostID string
	UserID string
}

// EnrichmentRecord is the persisted catalog enrichment for a
// (media kind, subject, region) triple.
type EnrichmentRecord struct {
	MediaKind   string
	SubjectID   string
	Region      string
	Title       string
	ReleaseYear *int
	PosterURL   string
	Providers   []string // canonical provider codes
	UpdatedAt   time.Time
}
