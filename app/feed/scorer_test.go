package feed

import (
	"math"
	"strings"
	"testing"
	"time"
)

func scoreRow(createdAt time.Time) Row {
	return Row{
		ID:        "p1",
		AuthorID:  "alice",
		MediaKind: "movie",
		SubjectID: "tt100",
		CreatedAt: createdAt,
		CircleIDs: []string{"circle-a"},
	}
}

func TestScore_DecreasesWithAge(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{}

	prev := Score(scoreRow(now), in, now)
	for _, age := range []time.Duration{time.Hour, 24 * time.Hour, 72 * time.Hour, 240 * time.Hour} {
		score := Score(scoreRow(now.Add(-age)), in, now)
		if score >= prev {
			t.Errorf("Expected score to strictly decrease with age, got %f after %f at age %v", score, prev, age)
		}
		prev = score
	}
}

func TestScore_IncreasesWithFriendLikes(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := scoreRow(now.Add(-24 * time.Hour))

	prev := Score(row, ScoreInputs{}, now)
	for likes := 1; likes <= 10; likes++ {
		score := Score(row, ScoreInputs{Engagement: Engagement{FriendLikes: likes}}, now)
		if score <= prev {
			t.Errorf("Expected score to strictly increase with friend likes, got %f after %f at %d likes", score, prev, likes)
		}
		prev = score
	}
}

func TestScore_FriendEngagementOutweighsGlobal(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := scoreRow(now.Add(-time.Hour))

	friendScore := Score(row, ScoreInputs{Engagement: Engagement{Likes: 5, FriendLikes: 5}}, now)
	globalScore := Score(row, ScoreInputs{Engagement: Engagement{Likes: 5}}, now)

	if friendScore <= globalScore {
		t.Errorf("Expected friend engagement to add weight: friend %f vs global %f", friendScore, globalScore)
	}
}

func TestScore_FreshUnsignaledRowIsBaseline(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	score := Score(scoreRow(now), ScoreInputs{}, now)
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("Expected baseline score 1.0 for fresh row with no signals, got %f", score)
	}
}

func TestScore_RecencyHalving(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	// exp(-72/72) = e^-1
	score := Score(scoreRow(now.Add(-72*time.Hour)), ScoreInputs{}, now)
	expected := math.Exp(-1)
	if math.Abs(score-expected) > 1e-9 {
		t.Errorf("Expected score %f at 72h age, got %f", expected, score)
	}
}

func TestScore_ContentSignal(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rating := 5

	row := scoreRow(now)
	row.Rating = &rating
	row.Comment = strings.Repeat("x", 300) // at the length cap

	score := Score(row, ScoreInputs{}, now)
	expected := 1.0 + 0.30 + 0.20
	if math.Abs(score-expected) > 1e-9 {
		t.Errorf("Expected score %f with full content signal, got %f", expected, score)
	}

	// Longer comments do not add more than the cap
	row.Comment = strings.Repeat("x", 1000)
	if capped := Score(row, ScoreInputs{}, now); math.Abs(capped-expected) > 1e-9 {
		t.Errorf("Expected long comment to cap at %f, got %f", expected, capped)
	}
}

func TestScore_AvailabilityCapsAtThree(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := scoreRow(now)

	three := Score(row, ScoreInputs{ProviderMatches: 3}, now)
	five := Score(row, ScoreInputs{ProviderMatches: 5}, now)
	if three != five {
		t.Errorf("Expected provider matches to cap at 3: %f vs %f", three, five)
	}

	expected := 1.0 + 3*0.15
	if math.Abs(three-expected) > 1e-9 {
		t.Errorf("Expected score %f with 3 provider matches, got %f", expected, three)
	}
}

func TestScore_PersonalBoostClamped(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := scoreRow(now)

	three := Score(row, ScoreInputs{MutualCircles: 3}, now)
	ten := Score(row, ScoreInputs{MutualCircles: 10}, now)
	if three != ten {
		t.Errorf("Expected mutual circle count to clamp at 3: %f vs %f", three, ten)
	}

	expected := 1.0 + 0.35
	if math.Abs(three-expected) > 1e-9 {
		t.Errorf("Expected score %f at full personal boost, got %f", expected, three)
	}
}

func TestScore_ActivityWeightNormalized(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := scoreRow(now)
	row.CircleIDs = []string{"circle-a", "circle-b"}

	in := ScoreInputs{
		CircleActivity:    map[string]int{"circle-a": 4, "circle-b": 6, "circle-c": 10},
		MaxCircleActivity: 10,
	}

	score := Score(row, in, now)
	expected := 1.0 + 1.0*0.9 // (4+6)/10 * 0.9
	if math.Abs(score-expected) > 1e-9 {
		t.Errorf("Expected score %f with normalized activity, got %f", expected, score)
	}
}

func TestScore_ZeroMaxActivityIsSafe(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	score := Score(scoreRow(now), ScoreInputs{MaxCircleActivity: 0}, now)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		t.Errorf("Expected finite score with zero max activity, got %f", score)
	}
}

func TestSortRanked_ByScoreThenChronology(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	items := []Item{
		{Row: Row{ID: "p1", CreatedAt: base.Add(-3 * time.Hour)}, Score: 0.5},
		{Row: Row{ID: "p2", CreatedAt: base.Add(-2 * time.Hour)}, Score: 0.8},
		{Row: Row{ID: "p3", CreatedAt: base.Add(-time.Hour)}, Score: 0.5},
		{Row: Row{ID: "p4", CreatedAt: base.Add(-time.Hour)}, Score: 0.5},
	}

	SortRanked(items)

	ids := []string{items[0].Row.ID, items[1].Row.ID, items[2].Row.ID, items[3].Row.ID}
	expected := []string{"p2", "p4", "p3", "p1"}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, ids)
		}
	}
}
