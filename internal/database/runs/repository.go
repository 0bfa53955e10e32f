// Package runs provides database operations for sync run reports.
//
// # Interface Implementation
//
//	var _ syncer.ProgressReporter = (*Reporter)(nil)
//
// # Usage
//
//	repo := runs.NewRepository(db)
//	reporter := repo.NewReporter(entities.SyncTriggerScheduled)
package runs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
)

// staleAfter marks a running run as interrupted when it has not reported
// progress for this long.
const staleAfter = 10 * time.Minute

// Repository handles all sync run database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// NewReporter creates a progress reporter for one run with the given trigger.
func (r *Repository) NewReporter(trigger entities.SyncTrigger) *Reporter {
	return &Reporter{repo: r, trigger: trigger}
}

// LatestRun returns the most recently started run, or nil if there is none.
func (r *Repository) LatestRun() (*entities.SyncRun, error) {
	var run entities.SyncRun
	err := r.db.Order("started_at DESC, id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *Repository) RecentRuns(limit int) ([]entities.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []entities.SyncRun
	err := r.db.Order("started_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// IsSyncRunning checks if a run is currently in progress.
// A run is considered stale if not updated in 10 minutes; stale runs are
// marked failed as a side effect.
func (r *Repository) IsSyncRunning() (bool, error) {
	var run entities.SyncRun
	err := r.db.Where("status = ?", entities.SyncStatusRunning).Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if run.UpdatedAt.Before(r.now().Add(-staleAfter)) {
		now := r.now()
		_ = r.db.Model(&entities.SyncRun{}).Where("id = ?", run.ID).Updates(map[string]any{
			"status":       entities.SyncStatusFailed,
			"error":        "sync was interrupted",
			"updated_at":   now,
			"completed_at": now,
		}).Error
		return false, nil
	}

	return true, nil
}

// Reporter records the progress of a single run.
// Implements syncer.ProgressReporter.
type Reporter struct {
	repo    *Repository
	trigger entities.SyncTrigger
	run     *entities.SyncRun
}

// RunID returns the identifier of the run started by StartSync.
func (p *Reporter) RunID() string {
	if p.run == nil {
		return ""
	}
	return p.run.RunID
}

// StartSync creates the run record.
func (p *Reporter) StartSync() error {
	now := p.repo.now()
	run := &entities.SyncRun{
		RunID:     uuid.NewString(),
		Trigger:   p.trigger,
		Status:    entities.SyncStatusRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := p.repo.db.Create(run).Error; err != nil {
		return err
	}
	p.run = run
	return nil
}

// UpdateProgress stores the current counters.
func (p *Reporter) UpdateProgress(counts entities.SyncCounts, currentItem string) error {
	if p.run == nil {
		return errors.New("sync run not started")
	}
	updates := countUpdates(counts)
	updates["current_item"] = currentItem
	updates["updated_at"] = p.repo.now()

	return p.repo.db.Model(&entities.SyncRun{}).Where("id = ?", p.run.ID).Updates(updates).Error
}

// CompleteSync marks the run completed, or failed when runErr is set.
func (p *Reporter) CompleteSync(counts entities.SyncCounts, runErr error) error {
	if p.run == nil {
		return errors.New("sync run not started")
	}
	now := p.repo.now()
	status := entities.SyncStatusCompleted
	errMsg := ""
	if runErr != nil {
		status = entities.SyncStatusFailed
		errMsg = runErr.Error()
	}

	updates := countUpdates(counts)
	updates["status"] = status
	updates["error"] = errMsg
	updates["current_item"] = ""
	updates["updated_at"] = now
	updates["completed_at"] = now

	return p.repo.db.Model(&entities.SyncRun{}).Where("id = ?", p.run.ID).Updates(updates).Error
}

func countUpdates(counts entities.SyncCounts) map[string]any {
	return map[string]any{
		"pages":     counts.Pages,
		"fetched":   counts.Fetched,
		"created":   counts.Created,
		"updated":   counts.Updated,
		"unchanged": counts.Unchanged,
		"skipped":   counts.Skipped,
	}
}
