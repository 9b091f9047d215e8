package feed

import (
	"math"
	"sort"
	"time"
)

// Ranking weights. Recency decays exponentially with a 72 hour time
// constant; every other signal scales the recency term.
const (
	recencyDecayHours    = 72.0
	activityWeightFactor = 0.9
	ratingSignal         = 0.30
	commentSignalMax     = 0.20
	commentLenCap        = 300
	availabilityStep     = 0.15
	availabilityCap      = 3
	personalWeight       = 0.35
	personalCap          = 3
	globalEngageWeight   = 0.15
	friendEngageWeight   = 0.35
)

// ScoreInputs carries the per-row signals the scorer consumes beyond the
// row itself.
type ScoreInputs struct {
	Engagement        Engagement
	ProviderMatches   int // providers intersecting the viewer's subscriptions
	MutualCircles     int // circles shared between viewer and the row's author
	CircleActivity    map[string]int
	MaxCircleActivity int
}

// Score computes the deterministic ranking score for one row. Pure:
// identical inputs always produce identical scores.
func Score(row Row, in ScoreInputs, now time.Time) float64 {
	ageHours := now.Sub(row.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	recency := math.Exp(-ageHours / recencyDecayHours)

	var activity float64
	if in.MaxCircleActivity > 0 {
		var sum int
		for _, circleID := range row.CircleIDs {
			sum += in.CircleActivity[circleID]
		}
		activity = float64(sum) / float64(in.MaxCircleActivity)
	}

	var content float64
	if row.Rating != nil {
		content += ratingSignal
	}
	if row.Comment != "" {
		commentLen := len(row.Comment)
		if commentLen > commentLenCap {
			commentLen = commentLenCap
		}
		content += float64(commentLen) / commentLenCap * commentSignalMax
	}

	matches := in.ProviderMatches
	if matches > availabilityCap {
		matches = availabilityCap
	}
	availability := float64(matches) * availabilityStep

	mutual := in.MutualCircles
	if mutual < 0 {
		mutual = 0
	}
	if mutual > personalCap {
		mutual = personalCap
	}
	personal := float64(mutual) / personalCap * personalWeight

	global := math.Log1p(float64(in.Engagement.Likes+in.Engagement.Comments)) * globalEngageWeight
	friend := math.Log1p(float64(in.Engagement.FriendLikes+in.Engagement.FriendComments)) * friendEngageWeight

	return recency * (1.0 + activity*activityWeightFactor + content + availability + personal + global + friend)
}

// SortRanked orders items by score descending. Equal scores fall back to
// chronological (created_at desc, id desc) order.
func SortRanked(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if !items[i].Row.CreatedAt.Equal(items[j].Row.CreatedAt) {
			return items[i].Row.CreatedAt.After(items[j].Row.CreatedAt)
		}
		return items[i].Row.ID > items[j].Row.ID
	})
}
