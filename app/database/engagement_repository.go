package database

import (
	"context"
	"fmt"
	"time"
)

var _ EngagementRepository = (*engagementRepository)(nil)

// engagementRepository handles database operations for likes and comments
type engagementRepository struct {
	db *DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) GetLikeEvents(ctx context.Context, postIDs []string, since time.Time) ([]EngagementEvent, error) {
	return r.getEvents(ctx, "post_likes", postIDs, since)
}

func (r *engagementRepository) GetCommentEvents(ctx context.Context, postIDs []string, since time.Time) ([]EngagementEvent, error) {
	return r.getEvents(ctx, "post_comments", postIDs, since)
}

func (r *engagementRepository) getEvents(ctx context.Context, table string, postIDs []string, since time.Time) ([]EngagementEvent, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := "SELECT post_id, user_id FROM " + table +
		" WHERE post_id IN (" + placeholders(len(postIDs)) + ") AND created_at >= ?"

	args := make([]interface{}, 0, len(postIDs)+1)
	for _, id := range postIDs {
		args = append(args, id)
	}
	args = append(args, since)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s events: %w", table, err)
	}
	defer rows.Close()

	var events []EngagementEvent
	for rows.Next() {
		var ev EngagementEvent
		if err := rows.Scan(&ev.PostID, &ev.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan %s event: %w", table, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return events, nil
}

func (r *engagementRepository) GetLikedByUser(ctx context.Context, postIDs []string, userID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	query := "SELECT post_id FROM post_likes WHERE user_id = ? AND post_id IN (" + placeholders(len(postIDs)) + ")"

	args := make([]interface{}, 0, len(postIDs)+1)
	args = append(args, userID)
	for _, id := range postIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get viewer likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, fmt.Errorf("failed to scan liked post id: %w", err)
		}
		liked[postID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked rows: %w", err)
	}

	return liked, nil
}

func (r *engagementRepository) GetCircleActivityCounts(ctx context.Context, circleIDs []string, since time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	if len(circleIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT circle_id, COUNT(*) FROM posts
		WHERE circle_id IN (` + placeholders(len(circleIDs)) + `) AND created_at >= ?
		GROUP BY circle_id`

	args := make([]interface{}, 0, len(circleIDs)+1)
	for _, id := range circleIDs {
		args = append(args, id)
	}
	args = append(args, since)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get circle activity counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var circleID string
		var count int
		if err := rows.Scan(&circleID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan activity count: %w", err)
		}
		counts[circleID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return counts, nil
}
