package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reelring/reelring/app/cfg"
	"github.com/reelring/reelring/app/database"
)

const (
	taskQueueSize   = 100
	taskTimeout     = 5 * time.Minute
	staleBatchLimit = 50
)

// Scheduler runs background maintenance on a worker pool. The periodic
// sweep finds enrichment records past their staleness horizon and
// enqueues a refresh task per subject.
type Scheduler struct {
	enrichmentRepo database.EnrichmentRepository
	resolver       EnrichmentResolver
	taskQueue      chan TaskInterface
	workerCount    int
	interval       time.Duration
	staleAfter     time.Duration
	region         string
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

func NewScheduler(enrichmentRepo database.EnrichmentRepository, resolver EnrichmentResolver) *Scheduler {
	config := cfg.Get()
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		enrichmentRepo: enrichmentRepo,
		resolver:       resolver,
		taskQueue:      make(chan TaskInterface, taskQueueSize),
		workerCount:    config.WorkerCount,
		interval:       config.SchedulerInterval,
		staleAfter:     time.Duration(config.EnrichmentStaleDays) * 24 * time.Hour,
		region:         config.Region,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (s *Scheduler) Start() {
	slog.Debug("Starting task scheduler", "worker_count", s.workerCount, "interval", s.interval)

	for i := range s.workerCount {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go s.sweepLoop()
}

func (s *Scheduler) Stop() {
	slog.Debug("Stopping task scheduler")

	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)

	slog.Debug("Task scheduler stopped")
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		slog.Debug("Task enqueued", "task_id", task.GetID(), "task_type", task.GetType())
		return nil
	case <-s.ctx.Done():
		return fmt.Errorf("scheduler is shutting down")
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweepStaleEnrichment()
		}
	}
}

func (s *Scheduler) sweepStaleEnrichment() {
	cutoff := time.Now().Add(-s.staleAfter)

	records, err := s.enrichmentRepo.GetStaleRecords(s.ctx, cutoff, staleBatchLimit)
	if err != nil {
		slog.Error("Stale enrichment sweep failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	slog.Debug("Enqueueing enrichment refreshes", "count", len(records))

	for _, record := range records {
		task := NewRefreshEnrichmentTask(s.resolver, record.MediaKind, record.SubjectID, s.region)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue enrichment refresh", "subject_id", record.SubjectID, "error", err)
			return
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		slog.Debug("Task completed", "worker_id", workerID, "task_id", task.GetID(), "duration", task.GetDuration())
		return
	}

	slog.Warn("Task failed", "worker_id", workerID, "task_id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task exhausted retries", "task_id", task.GetID(), "task_type", task.GetType())
		return
	}

	task.IncrementRetryCount()

	backoff := time.Duration(1<<task.GetRetryCount()) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}

	select {
	case <-s.ctx.Done():
	case <-time.After(backoff):
		if err := s.EnqueueTask(task); err != nil {
			slog.Error("Failed to re-enqueue task", "task_id", task.GetID(), "error", err)
		}
	}
}

var _ TaskSchedulerInterface = (*Scheduler)(nil)
