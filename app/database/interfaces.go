package database

import (
	"context"
	"time"
)

// CursorBoundary is a strict "older than" keyset boundary on
// (created_at, id), both descending.
type CursorBoundary struct {
	CreatedAt time.Time
	ID        string
}

type PostRepository interface {
	// GetCandidates returns up to limit posts visible through the given
	// circles, ordered by (created_at desc, id desc), strictly older than
	// the boundary when one is given.
	GetCandidates(ctx context.Context, circleIDs []string, before *CursorBoundary, limit int) ([]Post, error)
	GetPostCount(ctx context.Context) (int, error)
}

type MembershipRepository interface {
	// GetCircleIDs returns the circles the user belongs to. A user in no
	// circles yields an empty slice, not an error.
	GetCircleIDs(ctx context.Context, userID string) ([]string, error)
	GetCircleNames(ctx context.Context, circleIDs []string) (map[string]string, error)
	// GetMutualCircleCounts returns, per author, how many of the given
	// circles the author belongs to. Authors absent from all circles are
	// omitted from the map.
	GetMutualCircleCounts(ctx context.Context, circleIDs []string, authorIDs []string) (map[string]int, error)
	// GetMemberSet returns the union of members across the given circles.
	GetMemberSet(ctx context.Context, circleIDs []string) (map[string]struct{}, error)
	GetUserProviders(ctx context.Context, userID string) (map[string]struct{}, error)
	GetUserCount(ctx context.Context) (int, error)
	GetCircleCount(ctx context.Context) (int, error)
}

type EngagementRepository interface {
	GetLikeEvents(ctx context.Context, postIDs []string, since time.Time) ([]EngagementEvent, error)
	GetCommentEvents(ctx context.Context, postIDs []string, since time.Time) ([]EngagementEvent, error)
	// GetLikedByUser reports which of the given posts the user has liked,
	// regardless of window.
	GetLikedByUser(ctx context.Context, postIDs []string, userID string) (map[string]bool, error)
	// GetCircleActivityCounts returns post counts per circle since the
	// given time. Circles with no recent posts are omitted.
	GetCircleActivityCounts(ctx context.Context, circleIDs []string, since time.Time) (map[string]int, error)
}

type EnrichmentRepository interface {
	// GetRecord returns the persisted enrichment for the key, or nil when
	// none exists.
	GetRecord(ctx context.Context, mediaKind, subjectID, region string) (*EnrichmentRecord, error)
	// UpsertRecord inserts or replaces the enrichment for its natural key.
	// Idempotent; concurrent writers converge to the last write.
	UpsertRecord(ctx context.Context, rec EnrichmentRecord) error
	// GetStaleRecords returns up to limit records not refreshed since the
	// given time, oldest first.
	GetStaleRecords(ctx context.Context, olderThan time.Time, limit int) ([]EnrichmentRecord, error)
}
