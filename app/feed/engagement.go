package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/reelring/reelring/app/database"
)

// Aggregator computes windowed engagement counters for merged rows.
// Counts are request-scoped and never persisted.
type Aggregator struct {
	repo database.EngagementRepository
}

func NewAggregator(repo database.EngagementRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Run returns engagement counters per representative row id. Events are
// counted across every contributing post of a merged row, restricted to
// the trailing window; the friend subset is classified against the
// viewer's member set. Rows with no qualifying events get zero counts.
func (a *Aggregator) Run(ctx context.Context, rows []Row, friends map[string]struct{},
	viewerID string, since time.Time) (map[string]Engagement, error) {

	result := make(map[string]Engagement, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	postToRow := make(map[string]string)
	var postIDs []string
	for _, row := range rows {
		result[row.ID] = Engagement{}
		for _, postID := range row.PostIDs {
			postToRow[postID] = row.ID
			postIDs = append(postIDs, postID)
		}
	}

	likes, err := a.repo.GetLikeEvents(ctx, postIDs, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate likes: %w", err)
	}

	comments, err := a.repo.GetCommentEvents(ctx, postIDs, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate comments: %w", err)
	}

	viewerLiked, err := a.repo.GetLikedByUser(ctx, postIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve viewer likes: %w", err)
	}

	for _, ev := range likes {
		rowID := postToRow[ev.PostID]
		counters := result[rowID]
		counters.Likes++
		if _, ok := friends[ev.UserID]; ok {
			counters.FriendLikes++
		}
		result[rowID] = counters
	}

	for _, ev := range comments {
		rowID := postToRow[ev.PostID]
		counters := result[rowID]
		counters.Comments++
		if _, ok := friends[ev.UserID]; ok {
			counters.FriendComments++
		}
		result[rowID] = counters
	}

	for postID, liked := range viewerLiked {
		if !liked {
			continue
		}
		rowID := postToRow[postID]
		counters := result[rowID]
		counters.ViewerLiked = true
		result[rowID] = counters
	}

	return result, nil
}
