package api

import (
	"time"
)

// FeedRow is one assembled feed entry as rendered to clients.
type FeedRow struct {
	SubjectID         string    `json:"subject_id"`
	MediaKind         string    `json:"media_kind"`
	Title             string    `json:"title"`
	Year              *int      `json:"year"`
	PosterURL         string    `json:"poster_url,omitempty"`
	AuthorID          string    `json:"author_id"`
	AuthorName        string    `json:"author_name"`
	Circles           []string  `json:"circles"`
	Rating            *int      `json:"rating"`
	Comment           string    `json:"comment,omitempty"`
	Providers         []string  `json:"providers"`
	PlayableProviders []string  `json:"playable_providers"`
	LikeCount         int       `json:"like_count"`
	CommentCount      int       `json:"comment_count"`
	ViewerLiked       bool      `json:"viewer_liked"`
	CreatedAt         time.Time `json:"created_at"`
}

// FeedResponse is the feed endpoint payload. Error is set only on the
// degraded path; callers distinguish "truly empty" from "degraded" by
// its presence.
type FeedResponse struct {
	Items      []FeedRow `json:"items"`
	NextCursor *string   `json:"nextCursor"`
	Error      string    `json:"error,omitempty"`
}
