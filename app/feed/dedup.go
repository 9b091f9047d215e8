package feed

import (
	"sort"

	"github.com/reelring/reelring/app/database"
)

type dedupKey struct {
	SubjectKey
	AuthorID string
}

// Merge collapses posts that represent the same logical activity (same
// canonical subject by the same author, surfaced through different
// circles) into one row. Input must be sorted (created_at desc, id desc),
// so the first post seen per key is the most recent and becomes the
// representative. Circle and post ids accumulate as unions in
// first-discovery order.
func Merge(posts []database.Post) []Row {
	index := make(map[dedupKey]int)
	rows := make([]Row, 0, len(posts))

	for _, post := range posts {
		key := dedupKey{
			SubjectKey: SubjectKey{MediaKind: post.MediaKind, SubjectID: post.SubjectID},
			AuthorID:   post.UserID,
		}

		if i, ok := index[key]; ok {
			row := &rows[i]
			if !containsString(row.CircleIDs, post.CircleID) {
				row.CircleIDs = append(row.CircleIDs, post.CircleID)
			}
			row.PostIDs = append(row.PostIDs, post.ID)
			continue
		}

		index[key] = len(rows)
		rows = append(rows, Row{
			ID:         post.ID,
			AuthorID:   post.UserID,
			AuthorName: post.AuthorName,
			MediaKind:  post.MediaKind,
			SubjectID:  post.SubjectID,
			Rating:     post.Rating,
			Comment:    post.Comment,
			CreatedAt:  post.CreatedAt,
			CircleIDs:  []string{post.CircleID},
			PostIDs:    []string{post.ID},
		})
	}

	// Representatives arrive in input order, but re-sort explicitly on the
	// representative's own (created_at, id) keyset.
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	return rows
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
