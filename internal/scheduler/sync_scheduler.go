package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
)

// ErrAlreadySyncing is returned by RunNow while a sync is in progress.
var ErrAlreadySyncing = errors.New("sync already in progress")

// RunFunc performs one sync. The scheduler never runs two at once.
type RunFunc func(ctx context.Context, trigger entities.SyncTrigger) error

// LastResult describes the most recent finished run.
type LastResult struct {
	Trigger    entities.SyncTrigger `json:"trigger"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Error      string               `json:"error,omitempty"`
}

// SyncScheduler runs the Readwise to Notion sync on a cron schedule
type SyncScheduler struct {
	schedule string
	run      RunFunc
	timeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	last       *LastResult
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// DefaultRunTimeout bounds a single scheduled run.
const DefaultRunTimeout = time.Hour

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NewSyncScheduler creates a scheduler; call Start to begin firing.
func NewSyncScheduler(schedule string, run RunFunc) *SyncScheduler {
	return &SyncScheduler{
		schedule: schedule,
		run:      run,
		timeout:  DefaultRunTimeout,
		cron:     cron.New(cron.WithParser(parser)),
		ctx:      context.Background(),
	}
}

// ValidateSchedule reports whether schedule is a valid five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// Start begins the scheduler. Cancelling ctx stops it.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	sched, err := parser.Parse(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		if err := s.RunNow(entities.SyncTriggerScheduled); err != nil {
			slog.Warn("Scheduled sync skipped", "reason", err)
		}
	}))

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.ctx = cancelCtx

	s.cron.Start()
	s.isRunning = true

	slog.Info("Sync scheduler started", "schedule", s.schedule, "next_run", sched.Next(time.Now()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops firing new runs and waits for an in-flight run to return.
// Every caller waits, including one that finds the scheduler already stopped.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}

	stopCtx := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.mu.Unlock()

	<-stopCtx.Done()
	s.wg.Wait()

	slog.Info("Sync scheduler stopped")
}

// RunNow starts a sync in the background. It returns ErrAlreadySyncing
// instead of queueing when a run is in progress.
func (s *SyncScheduler) RunNow(trigger entities.SyncTrigger) error {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return ErrAlreadySyncing
	}
	s.isSyncing = true
	parent := s.ctx
	s.wg.Add(1)
	s.mu.Unlock()

	go s.runSync(parent, trigger)
	return nil
}

func (s *SyncScheduler) runSync(parent context.Context, trigger entities.SyncTrigger) {
	defer s.wg.Done()

	result := &LastResult{Trigger: trigger, StartedAt: time.Now()}
	defer func() {
		result.FinishedAt = time.Now()
		s.mu.Lock()
		s.isSyncing = false
		s.last = result
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	if err := s.run(ctx, trigger); err != nil {
		result.Error = err.Error()
		slog.Error("Sync failed", "trigger", trigger, "error", err)
		return
	}
	slog.Info("Sync run completed", "trigger", trigger, "duration", time.Since(result.StartedAt).Round(time.Millisecond))
}

// IsRunning returns whether the scheduler is active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *SyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

func (s *SyncScheduler) Schedule() string {
	return s.schedule
}

// NextRun returns when the next scheduled sync will occur, or nil when stopped.
func (s *SyncScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	// Next is filled in by the cron goroutine shortly after Start.
	t := entry.Next
	if t.IsZero() {
		t = entry.Schedule.Next(time.Now())
	}
	return &t
}

// LastResult returns a copy of the most recent finished run, if any.
func (s *SyncScheduler) LastResult() *LastResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	last := *s.last
	return &last
}
