package feed

import (
	"testing"
	"time"

	"github.com/reelring/reelring/app/database"
)

func post(id, circleID, userID, subjectID string, createdAt time.Time) database.Post {
	return database.Post{
		ID:        id,
		CircleID:  circleID,
		UserID:    userID,
		MediaKind: "movie",
		SubjectID: subjectID,
		CreatedAt: createdAt,
	}
}

func TestMerge_UnionsCirclesForSameSubjectAndAuthor(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p3", "circle-b", "alice", "tt100", base),
		post("p2", "circle-a", "alice", "tt100", base.Add(-time.Hour)),
		post("p1", "circle-c", "alice", "tt100", base.Add(-2*time.Hour)),
	}

	rows := Merge(posts)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 merged row, got %d", len(rows))
	}

	row := rows[0]
	if row.ID != "p3" {
		t.Errorf("Expected representative to be the most recent post p3, got %s", row.ID)
	}
	if len(row.CircleIDs) != 3 {
		t.Fatalf("Expected union of 3 circles, got %v", row.CircleIDs)
	}
	// First-discovery order: representative's circle first
	expected := []string{"circle-b", "circle-a", "circle-c"}
	for i, id := range expected {
		if row.CircleIDs[i] != id {
			t.Errorf("Expected circle %s at position %d, got %s", id, i, row.CircleIDs[i])
		}
	}
	if len(row.PostIDs) != 3 {
		t.Errorf("Expected 3 contributing posts, got %v", row.PostIDs)
	}
}

func TestMerge_DuplicateCircleNotRepeated(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p2", "circle-a", "alice", "tt100", base),
		post("p1", "circle-a", "alice", "tt100", base.Add(-time.Hour)),
	}

	rows := Merge(posts)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 merged row, got %d", len(rows))
	}
	if len(rows[0].CircleIDs) != 1 {
		t.Errorf("Expected circle list without duplicates, got %v", rows[0].CircleIDs)
	}
	if len(rows[0].PostIDs) != 2 {
		t.Errorf("Expected both contributing post ids, got %v", rows[0].PostIDs)
	}
}

func TestMerge_DifferentAuthorsStaySeparate(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p2", "circle-a", "alice", "tt100", base),
		post("p1", "circle-b", "bob", "tt100", base.Add(-time.Hour)),
	}

	rows := Merge(posts)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows for distinct authors, got %d", len(rows))
	}
}

func TestMerge_DifferentSubjectsStaySeparate(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p2", "circle-a", "alice", "tt100", base),
		post("p1", "circle-a", "alice", "tt200", base.Add(-time.Hour)),
	}

	rows := Merge(posts)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows for distinct subjects, got %d", len(rows))
	}
}

func TestMerge_OutputStaysChronological(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p4", "circle-a", "alice", "tt100", base),
		post("p3", "circle-b", "bob", "tt200", base.Add(-time.Hour)),
		post("p2", "circle-b", "alice", "tt100", base.Add(-2*time.Hour)),
		post("p1", "circle-a", "carol", "tt300", base.Add(-3*time.Hour)),
	}

	rows := Merge(posts)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows after merge, got %d", len(rows))
	}

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Errorf("Rows out of chronological order at position %d", i)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
			t.Errorf("Rows out of id order at position %d", i)
		}
	}
}

func TestMerge_SameTimestampTieBreaksOnID(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	posts := []database.Post{
		post("p9", "circle-a", "alice", "tt100", base),
		post("p2", "circle-a", "bob", "tt200", base),
	}

	rows := Merge(posts)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "p9" || rows[1].ID != "p2" {
		t.Errorf("Expected id-descending tie-break, got %s then %s", rows[0].ID, rows[1].ID)
	}
}
