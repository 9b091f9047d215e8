package feed

import (
	"time"
)

// Row is a merged candidate entry: one logical piece of activity, with
// the union of circles it surfaced through. The representative fields
// (author, content, timestamp) come from the most recent contributing post.
type Row struct {
	ID         string // representative post id
	AuthorID   string
	AuthorName string
	MediaKind  string
	SubjectID  string
	Rating     *int
	Comment    string
	CreatedAt  time.Time
	CircleIDs  []string // union across contributing posts, first-discovery order
	PostIDs    []string // every contributing post, for engagement aggregation
}

// SubjectKey identifies "the same piece of content" across posts.
type SubjectKey struct {
	MediaKind string
	SubjectID string
}

// Engagement holds windowed like/comment counts for one row.
type Engagement struct {
	Likes          int
	Comments       int
	FriendLikes    int
	FriendComments int
	ViewerLiked    bool
}

// Enrichment is the resolved catalog data for a subject. Providers are
// canonical service codes.
type Enrichment struct {
	Title     string
	Year      *int
	PosterURL string
	Providers []string
}

// Item is a fully assembled feed entry, ready for the API layer.
type Item struct {
	Row         Row
	Engagement  Engagement
	Enrichment  Enrichment
	CircleNames []string
	Playable    []string // providers the viewer is subscribed to
	Score       float64
}

// Page is the result of one feed request.
type Page struct {
	Items      []Item
	NextCursor *string
}

// Sort modes accepted by the feed endpoint.
const (
	SortLatest = "latest"
	SortSmart  = "smart"
)
