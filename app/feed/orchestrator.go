package feed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelring/reelring/app/database"
)

const (
	// Ranked mode reads a wider chronological window than one page so the
	// scorer has material to reorder, bounded to keep reads predictable.
	rankedWindowFactor = 3
	rankedWindowMax    = 150
)

// Request is one feed page request after input validation.
type Request struct {
	ViewerID string
	Limit    int
	Cursor   string
	Sort     string // SortLatest or SortSmart
}

// Orchestrator coordinates one feed request: membership, candidate
// fetch, dedup, auxiliary signals, enrichment, scoring and pagination.
// It is stateless across requests.
type Orchestrator struct {
	posts      database.PostRepository
	membership database.MembershipRepository
	aggregator *Aggregator
	resolver   *Resolver
	region     string
	window     time.Duration // trailing window for engagement and activity
	now        func() time.Time
}

func NewOrchestrator(posts database.PostRepository, membership database.MembershipRepository,
	aggregator *Aggregator, resolver *Resolver, region string, window time.Duration) *Orchestrator {
	return &Orchestrator{
		posts:      posts,
		membership: membership,
		aggregator: aggregator,
		resolver:   resolver,
		region:     region,
		window:     window,
		now:        time.Now,
	}
}

// BuildPage produces one feed page. A viewer in no circles gets an empty
// page, not an error. Collaborator failures return an error; the HTTP
// edge translates that into the degraded 200 response. Enrichment
// failures never reach here.
func (o *Orchestrator) BuildPage(ctx context.Context, req Request) (*Page, error) {
	circleIDs, err := o.membership.GetCircleIDs(ctx, req.ViewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if len(circleIDs) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	// An unparsable cursor is treated as "no cursor" by contract.
	var boundary *database.CursorBoundary
	if req.Cursor != "" {
		if t, id, ok := DecodeCursor(req.Cursor); ok {
			boundary = &database.CursorBoundary{CreatedAt: t, ID: id}
		}
	}

	windowSize := req.Limit + 1
	if req.Sort == SortSmart {
		windowSize = req.Limit * rankedWindowFactor
		if windowSize > rankedWindowMax {
			windowSize = rankedWindowMax
		}
	}

	posts, err := o.posts.GetCandidates(ctx, circleIDs, boundary, windowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	if len(posts) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	rows := Merge(posts)

	authorIDs := distinctAuthors(rows)
	since := o.now().Add(-o.window)

	var (
		mutualCounts    map[string]int
		circleNames     map[string]string
		activityCounts  map[string]int
		engagement      map[string]Engagement
		viewerProviders map[string]struct{}
		enrichment      map[SubjectKey]Enrichment
	)

	// Auxiliary signals and enrichment are independent; fetch concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mutualCounts, err = o.membership.GetMutualCircleCounts(gctx, circleIDs, authorIDs)
		return err
	})
	g.Go(func() error {
		var err error
		circleNames, err = o.membership.GetCircleNames(gctx, circleIDsOf(rows))
		return err
	})
	g.Go(func() error {
		var err error
		viewerProviders, err = o.membership.GetUserProviders(gctx, req.ViewerID)
		return err
	})
	g.Go(func() error {
		var err error
		activityCounts, err = o.aggregator.repo.GetCircleActivityCounts(gctx, circleIDs, since)
		return err
	})
	g.Go(func() error {
		// The friend set feeds the engagement aggregation, so these two
		// stay sequential inside one worker.
		friends, err := o.membership.GetMemberSet(gctx, circleIDs)
		if err != nil {
			return err
		}
		engagement, err = o.aggregator.Run(gctx, rows, friends, req.ViewerID, since)
		return err
	})
	g.Go(func() error {
		enrichment = o.resolver.ResolveAll(gctx, rows, o.region)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute feed signals: %w", err)
	}

	maxActivity := 0
	for _, count := range activityCounts {
		if count > maxActivity {
			maxActivity = count
		}
	}

	items := make([]Item, 0, len(rows))
	now := o.now()
	for _, row := range rows {
		en := enrichment[SubjectKey{MediaKind: row.MediaKind, SubjectID: row.SubjectID}]
		item := Item{
			Row:         row,
			Engagement:  engagement[row.ID],
			Enrichment:  en,
			CircleNames: namesFor(row.CircleIDs, circleNames),
			Playable:    intersect(en.Providers, viewerProviders),
		}
		if req.Sort == SortSmart {
			item.Score = Score(row, ScoreInputs{
				Engagement:        item.Engagement,
				ProviderMatches:   len(item.Playable),
				MutualCircles:     mutualCounts[row.AuthorID],
				CircleActivity:    activityCounts,
				MaxCircleActivity: maxActivity,
			}, now)
		}
		items = append(items, item)
	}

	if req.Sort == SortSmart {
		SortRanked(items)
	}

	// More pages exist when the fetch filled its window or dedup still
	// left more rows than one page.
	hasMore := len(posts) == windowSize || len(items) > req.Limit
	if len(items) > req.Limit {
		items = items[:req.Limit]
	}

	page := &Page{Items: items}
	if hasMore && len(items) > 0 {
		// The cursor is always chronological, taken from the last emitted
		// item even when ranked order placed it there. See DESIGN.md for
		// the boundary approximation this implies in smart mode.
		last := items[len(items)-1].Row
		token := EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &token
	}

	return page, nil
}

func distinctAuthors(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	var authors []string
	for _, row := range rows {
		if _, ok := seen[row.AuthorID]; ok {
			continue
		}
		seen[row.AuthorID] = struct{}{}
		authors = append(authors, row.AuthorID)
	}
	return authors
}

func circleIDsOf(rows []Row) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, row := range rows {
		for _, id := range row.CircleIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func namesFor(circleIDs []string, names map[string]string) []string {
	result := make([]string, 0, len(circleIDs))
	for _, id := range circleIDs {
		if name, ok := names[id]; ok {
			result = append(result, name)
		}
	}
	return result
}

func intersect(providers []string, subscribed map[string]struct{}) []string {
	result := make([]string, 0, len(providers))
	for _, p := range providers {
		if _, ok := subscribed[p]; ok {
			result = append(result, p)
		}
	}
	return result
}
