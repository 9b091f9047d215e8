package tasks

import (
	"context"

	"github.com/reelring/reelring/app/feed"
)

type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// EnrichmentResolver refreshes catalog metadata for a single subject.
type EnrichmentResolver interface {
	Resolve(ctx context.Context, mediaKind, subjectID, region string, force bool) feed.Enrichment
}
