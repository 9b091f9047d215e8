package tasks

import (
	"context"
	"log/slog"
)

// RefreshEnrichmentTask refetches catalog metadata for one subject whose
// cached record has gone stale.
type RefreshEnrichmentTask struct {
	Task
	resolver  EnrichmentResolver
	mediaKind string
	subjectID string
	region    string
}

func NewRefreshEnrichmentTask(resolver EnrichmentResolver, mediaKind, subjectID, region string) *RefreshEnrichmentTask {
	return &RefreshEnrichmentTask{
		Task:      NewTask(TaskTypeRefreshEnrichment),
		resolver:  resolver,
		mediaKind: mediaKind,
		subjectID: subjectID,
		region:    region,
	}
}

func (t *RefreshEnrichmentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	enrichment := t.resolver.Resolve(ctx, t.mediaKind, t.subjectID, t.region, true)
	slog.Debug("Enrichment refreshed", "media_kind", t.mediaKind, "subject_id", t.subjectID, "title", enrichment.Title)

	return nil
}
