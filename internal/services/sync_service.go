package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrlokans/highlights-notion-sync/internal/audit"
	"github.com/mrlokans/highlights-notion-sync/internal/config"
	"github.com/mrlokans/highlights-notion-sync/internal/database/runs"
	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
	"github.com/mrlokans/highlights-notion-sync/internal/ratelimit"
	"github.com/mrlokans/highlights-notion-sync/internal/readwise"
	"github.com/mrlokans/highlights-notion-sync/internal/syncer"
)

// SyncService wires the Readwise and Notion clients into a syncer for each
// run. It holds no per-run state.
type SyncService struct {
	cfg      *config.Config
	readwise *readwise.Client
	notion   *notion.Client
	history  *runs.Repository
}

// NewSyncService builds the clients from cfg. history may be nil, in which
// case runs are not recorded.
func NewSyncService(cfg *config.Config, history *runs.Repository) *SyncService {
	return &SyncService{
		cfg:      cfg,
		readwise: readwise.NewClient(cfg.Readwise.Token, cfg.Readwise.BaseURL, cfg.Sync.HTTPTimeout),
		notion:   notion.NewClient(cfg.Notion.Token, cfg.Notion.BaseURL, cfg.Notion.Version, cfg.Sync.HTTPTimeout),
		history:  history,
	}
}

// History returns the run repository, or nil when history is disabled.
func (s *SyncService) History() *runs.Repository {
	return s.history
}

// ErrSyncInProgress is returned when run history shows another live run,
// e.g. a one-shot sync started while the server shares the history file.
var ErrSyncInProgress = errors.New("another sync is already running")

// Run performs one full sync.
func (s *SyncService) Run(ctx context.Context, trigger entities.SyncTrigger) (syncer.Result, error) {
	if s.history != nil {
		running, err := s.history.IsSyncRunning()
		if err != nil {
			return syncer.Result{}, fmt.Errorf("check run history: %w", err)
		}
		if running {
			return syncer.Result{}, ErrSyncInProgress
		}
	}

	limiter, err := ratelimit.New(s.cfg.Sync.RateStrategy, s.cfg.Sync.Delay, s.cfg.Sync.RatePerSecond)
	if err != nil {
		return syncer.Result{}, fmt.Errorf("configure rate limiter: %w", err)
	}

	databaseID := s.cfg.Notion.DatabaseID
	matcher := syncer.NewMatcher(s.notion, databaseID)
	upserter := syncer.NewUpserter(matcher, s.notion, databaseID)
	var fetcher syncer.PageFetcher = s.readwise
	if dir := s.cfg.History.AuditDir; dir != "" {
		fetcher = audit.NewRecordingFetcher(s.readwise, audit.NewAuditor(dir))
	}
	runner := syncer.NewSyncer(fetcher, upserter, limiter)

	if s.history != nil {
		runner.SetProgressReporter(s.history.NewReporter(trigger))
	}

	slog.Info("Starting sync", "trigger", trigger, "database_id", databaseID, "rate_strategy", s.cfg.Sync.RateStrategy)
	return runner.Run(ctx)
}

// Check verifies both credentials without writing anything.
func (s *SyncService) Check(ctx context.Context) (*CheckResult, error) {
	if err := s.readwise.ValidateToken(ctx); err != nil {
		return nil, fmt.Errorf("readwise: %w", err)
	}

	db, err := s.notion.RetrieveDatabase(ctx, s.cfg.Notion.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("notion: %w", err)
	}

	result := &CheckResult{
		DatabaseTitle: notion.PlainText(db.Title),
	}
	for _, name := range []string{syncer.PropTitle, syncer.PropURL, syncer.PropSource, syncer.PropBook, syncer.PropAuthor, syncer.PropTags} {
		if _, ok := db.Properties[name]; !ok {
			result.MissingProperties = append(result.MissingProperties, name)
		}
	}
	return result, nil
}

// CheckResult describes the destination database as seen by Check.
type CheckResult struct {
	DatabaseTitle     string
	MissingProperties []string
}
