package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/ratelimit"
	"github.com/mrlokans/highlights-notion-sync/internal/readwise"
)

// PageFetcher fetches one export page for a cursor (nil for the first page).
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor *string) (*readwise.ExportResponse, error)
}

// HighlightUpserter writes a single highlight to the destination.
type HighlightUpserter interface {
	Upsert(ctx context.Context, h entities.Highlight) (Outcome, error)
}

// ProgressReporter receives run progress. Reporter failures are logged and
// never abort a run.
type ProgressReporter interface {
	StartSync() error
	UpdateProgress(counts entities.SyncCounts, currentItem string) error
	CompleteSync(counts entities.SyncCounts, runErr error) error
}

// Result holds the counters of a run. It is returned even when the run
// fails, reflecting the work done up to the failure.
type Result struct {
	entities.SyncCounts
	Duration time.Duration
}

func (r *Result) record(outcome Outcome) {
	switch outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeSkippedNoURL, OutcomeSkippedNoTags:
		r.Skipped++
	}
}

// Syncer drives the export page loop. It is strictly sequential: one
// request in flight at a time, paced by the limiter after every highlight.
type Syncer struct {
	fetcher  PageFetcher
	upserter HighlightUpserter
	limiter  ratelimit.Limiter
	reporter ProgressReporter
}

func NewSyncer(fetcher PageFetcher, upserter HighlightUpserter, limiter ratelimit.Limiter) *Syncer {
	if limiter == nil {
		limiter = ratelimit.NewFixedDelay(0)
	}
	return &Syncer{
		fetcher:  fetcher,
		upserter: upserter,
		limiter:  limiter,
	}
}

// SetProgressReporter sets the progress reporter (optional).
func (s *Syncer) SetProgressReporter(reporter ProgressReporter) {
	s.reporter = reporter
}

// Run pages through the whole export until the source reports no next
// cursor. The first error aborts the run; records written before it stay.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var result Result

	s.reportStart()
	err := s.run(ctx, &result)
	result.Duration = time.Since(start)
	s.reportComplete(result, err)

	if err != nil {
		return result, err
	}

	slog.Info("Sync finished",
		"pages", result.Pages,
		"fetched", result.Fetched,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

func (s *Syncer) run(ctx context.Context, result *Result) error {
	var cursor *string

	for {
		page, err := s.fetcher.FetchPage(ctx, cursor)
		if err != nil {
			return fmt.Errorf("fetch export page %d: %w", result.Pages+1, err)
		}
		result.Pages++

		highlights := readwise.Normalize(page.Results)
		result.Fetched += len(highlights)
		slog.Info("Fetched export page",
			"page", result.Pages,
			"books", len(page.Results),
			"highlights", len(highlights))

		for _, h := range highlights {
			outcome, err := s.upserter.Upsert(ctx, h)
			if err != nil {
				return fmt.Errorf("upsert highlight %s: %w", h.ID, err)
			}
			result.record(outcome)
			s.reportProgress(*result, h.URL)

			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		cursor = page.NextCursor()
		if cursor == nil {
			return nil
		}
	}
}

func (s *Syncer) reportStart() {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.StartSync(); err != nil {
		slog.Warn("Failed to record sync start", "error", err)
	}
}

func (s *Syncer) reportProgress(result Result, currentItem string) {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.UpdateProgress(result.SyncCounts, currentItem); err != nil {
		slog.Warn("Failed to record sync progress", "error", err)
	}
}

func (s *Syncer) reportComplete(result Result, runErr error) {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.CompleteSync(result.SyncCounts, runErr); err != nil {
		slog.Warn("Failed to record sync completion", "error", err)
	}
}
