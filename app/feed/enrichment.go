package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelring/reelring/app/catalog"
	"github.com/reelring/reelring/app/database"
	"github.com/reelring/reelring/app/metrics"
)

const placeholderTitle = "Untitled"

// Resolver resolves catalog enrichment with a staleness-tolerant
// persistent cache in front of the external catalog client. Enrichment
// failure never propagates: the worst case is a placeholder.
type Resolver struct {
	repo       database.EnrichmentRepository
	client     catalog.Client
	staleAfter time.Duration
	fanout     int
	now        func() time.Time
}

func NewResolver(repo database.EnrichmentRepository, client catalog.Client,
	staleAfter time.Duration, fanout int) *Resolver {
	if fanout < 1 {
		fanout = 1
	}
	return &Resolver{
		repo:       repo,
		client:     client,
		staleAfter: staleAfter,
		fanout:     fanout,
		now:        time.Now,
	}
}

// ResolveAll resolves enrichment for every distinct subject among the
// rows, fanning distinct keys out concurrently with a bounded limit.
// Identical subjects across rows are resolved exactly once per request.
func (r *Resolver) ResolveAll(ctx context.Context, rows []Row, region string) map[SubjectKey]Enrichment {
	keys := make([]SubjectKey, 0, len(rows))
	seen := make(map[SubjectKey]struct{}, len(rows))
	for _, row := range rows {
		key := SubjectKey{MediaKind: row.MediaKind, SubjectID: row.SubjectID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	var mu sync.Mutex
	resolved := make(map[SubjectKey]Enrichment, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fanout)
	for _, key := range keys {
		g.Go(func() error {
			enrichment := r.Resolve(gctx, key.MediaKind, key.SubjectID, region, false)
			mu.Lock()
			resolved[key] = enrichment
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; enrichment failures degrade per key.
	_ = g.Wait()

	return resolved
}

// Resolve looks up enrichment for one subject. With force set, a fresh
// cached record is ignored and a live refetch is attempted.
//
// Lookup order: fresh persisted record, live refetch (upserted on
// success), stale persisted record, placeholder.
func (r *Resolver) Resolve(ctx context.Context, mediaKind, subjectID, region string, force bool) Enrichment {
	record, err := r.repo.GetRecord(ctx, mediaKind, subjectID, region)
	if err != nil {
		slog.Error("Enrichment cache read failed", "media_kind", mediaKind, "subject", subjectID, "error", err)
		record = nil
	}

	if record != nil && !force && r.now().Sub(record.UpdatedAt) < r.staleAfter {
		metrics.EnrichmentLookups.WithLabelValues(metrics.SourceCache).Inc()
		return recordToEnrichment(record)
	}

	title, err := r.client.Lookup(ctx, mediaKind, subjectID, region)
	if err == nil {
		fresh := database.EnrichmentRecord{
			MediaKind:   mediaKind,
			SubjectID:   subjectID,
			Region:      region,
			Title:       title.Title,
			ReleaseYear: title.ReleaseYear,
			PosterURL:   title.PosterURL,
			Providers:   catalog.NormalizeProviders(title.Providers),
			UpdatedAt:   r.now(),
		}
		if err := r.repo.UpsertRecord(ctx, fresh); err != nil {
			slog.Error("Enrichment cache write failed", "media_kind", mediaKind, "subject", subjectID, "error", err)
		}
		metrics.EnrichmentLookups.WithLabelValues(metrics.SourceRefetch).Inc()
		return recordToEnrichment(&fresh)
	}

	slog.Warn("Catalog lookup failed", "media_kind", mediaKind, "subject", subjectID, "error", err)

	if record != nil {
		metrics.EnrichmentLookups.WithLabelValues(metrics.SourceStale).Inc()
		return recordToEnrichment(record)
	}

	metrics.EnrichmentLookups.WithLabelValues(metrics.SourcePlaceholder).Inc()
	return Enrichment{Title: placeholderTitle, Providers: []string{}}
}

func recordToEnrichment(rec *database.EnrichmentRecord) Enrichment {
	providers := rec.Providers
	if providers == nil {
		providers = []string{}
	}
	title := rec.Title
	if title == "" {
		title = placeholderTitle
	}
	return Enrichment{
		Title:     title,
		Year:      rec.ReleaseYear,
		PosterURL: rec.PosterURL,
		Providers: providers,
	}
}
