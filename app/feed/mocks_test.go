package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reelring/reelring/app/catalog"
	"github.com/reelring/reelring/app/database"
)

var errStore = errors.New("store unavailable")

type fakePostRepo struct {
	posts []database.Post
	fail  bool
}

func (f *fakePostRepo) GetCandidates(_ context.Context, circleIDs []string, before *database.CursorBoundary, limit int) ([]database.Post, error) {
	if f.fail {
		return nil, errStore
	}
	visible := make(map[string]struct{}, len(circleIDs))
	for _, id := range circleIDs {
		visible[id] = struct{}{}
	}

	var result []database.Post
	for _, p := range f.posts {
		if _, ok := visible[p.CircleID]; !ok {
			continue
		}
		if before != nil {
			older := p.CreatedAt.Before(before.CreatedAt) ||
				(p.CreatedAt.Equal(before.CreatedAt) && p.ID < before.ID)
			if !older {
				continue
			}
		}
		result = append(result, p)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakePostRepo) GetPostCount(context.Context) (int, error) {
	return len(f.posts), nil
}

type fakeMembershipRepo struct {
	circles     map[string][]string // user -> circle ids
	circleNames map[string]string
	members     map[string][]string // circle -> user ids
	providers   map[string][]string // user -> provider codes
	fail        bool
}

func (f *fakeMembershipRepo) GetCircleIDs(_ context.Context, userID string) ([]string, error) {
	if f.fail {
		return nil, errStore
	}
	return f.circles[userID], nil
}

func (f *fakeMembershipRepo) GetCircleNames(_ context.Context, circleIDs []string) (map[string]string, error) {
	names := make(map[string]string)
	for _, id := range circleIDs {
		if name, ok := f.circleNames[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (f *fakeMembershipRepo) GetMutualCircleCounts(_ context.Context, circleIDs []string, authorIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, circleID := range circleIDs {
		for _, member := range f.members[circleID] {
			for _, author := range authorIDs {
				if member == author {
					counts[author]++
				}
			}
		}
	}
	return counts, nil
}

func (f *fakeMembershipRepo) GetMemberSet(_ context.Context, circleIDs []string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, circleID := range circleIDs {
		for _, member := range f.members[circleID] {
			set[member] = struct{}{}
		}
	}
	return set, nil
}

func (f *fakeMembershipRepo) GetUserProviders(_ context.Context, userID string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, p := range f.providers[userID] {
		set[p] = struct{}{}
	}
	return set, nil
}

func (f *fakeMembershipRepo) GetUserCount(context.Context) (int, error)   { return 0, nil }
func (f *fakeMembershipRepo) GetCircleCount(context.Context) (int, error) { return 0, nil }

type engagementEntry struct {
	postID    string
	userID    string
	createdAt time.Time
}

type fakeEngagementRepo struct {
	likes    []engagementEntry
	comments []engagementEntry
	fail     bool
}

func (f *fakeEngagementRepo) GetLikeEvents(_ context.Context, postIDs []string, since time.Time) ([]database.EngagementEvent, error) {
	if f.fail {
		return nil, errStore
	}
	return filterEvents(f.likes, postIDs, since), nil
}

func (f *fakeEngagementRepo) GetCommentEvents(_ context.Context, postIDs []string, since time.Time) ([]database.EngagementEvent, error) {
	if f.fail {
		return nil, errStore
	}
	return filterEvents(f.comments, postIDs, since), nil
}

func (f *fakeEngagementRepo) GetLikedByUser(_ context.Context, postIDs []string, userID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	for _, entry := range f.likes {
		if entry.userID != userID {
			continue
		}
		for _, id := range postIDs {
			if entry.postID == id {
				liked[id] = true
			}
		}
	}
	return liked, nil
}

func (f *fakeEngagementRepo) GetCircleActivityCounts(_ context.Context, circleIDs []string, _ time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func filterEvents(entries []engagementEntry, postIDs []string, since time.Time) []database.EngagementEvent {
	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	var events []database.EngagementEvent
	for _, entry := range entries {
		if _, ok := wanted[entry.postID]; !ok {
			continue
		}
		if entry.createdAt.Before(since) {
			continue
		}
		events = append(events, database.EngagementEvent{PostID: entry.postID, UserID: entry.userID})
	}
	return events
}

type fakeEnrichmentRepo struct {
	mu      sync.Mutex
	records map[string]database.EnrichmentRecord
	readErr error
}

func enrichmentKey(mediaKind, subjectID, region string) string {
	return mediaKind + "/" + subjectID + "/" + region
}

func (f *fakeEnrichmentRepo) GetRecord(_ context.Context, mediaKind, subjectID, region string) (*database.EnrichmentRecord, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[enrichmentKey(mediaKind, subjectID, region)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeEnrichmentRepo) UpsertRecord(_ context.Context, rec database.EnrichmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records == nil {
		f.records = make(map[string]database.EnrichmentRecord)
	}
	f.records[enrichmentKey(rec.MediaKind, rec.SubjectID, rec.Region)] = rec
	return nil
}

func (f *fakeEnrichmentRepo) GetStaleRecords(_ context.Context, olderThan time.Time, limit int) ([]database.EnrichmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []database.EnrichmentRecord
	for _, rec := range f.records {
		if rec.UpdatedAt.Before(olderThan) {
			stale = append(stale, rec)
		}
		if len(stale) == limit {
			break
		}
	}
	return stale, nil
}

type fakeCatalogClient struct {
	mu      sync.Mutex
	titles  map[string]*catalog.Title
	err     error
	lookups int
}

func (f *fakeCatalogClient) Lookup(_ context.Context, mediaKind, subjectID, region string) (*catalog.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if title, ok := f.titles[enrichmentKey(mediaKind, subjectID, region)]; ok {
		return title, nil
	}
	return &catalog.Title{Title: "Unknown"}, nil
}

func (f *fakeCatalogClient) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}
