package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/scheduler"
)

// SyncRunner is the part of the scheduler the controller drives.
type SyncRunner interface {
	RunNow(trigger entities.SyncTrigger) error
	IsRunning() bool
	IsSyncing() bool
	Schedule() string
	NextRun() *time.Time
	LastResult() *scheduler.LastResult
}

// RunHistory lists persisted sync runs, newest first.
type RunHistory interface {
	RecentRuns(limit int) ([]entities.SyncRun, error)
}

const (
	defaultRunsLimit = 10
	maxRunsLimit     = 100
)

type SyncStatusResponse struct {
	SchedulerRunning bool                  `json:"scheduler_running"`
	Syncing          bool                  `json:"syncing"`
	Schedule         string                `json:"schedule"`
	NextRun          *time.Time            `json:"next_run,omitempty"`
	LastResult       *scheduler.LastResult `json:"last_result,omitempty"`
	RecentRuns       []entities.SyncRun    `json:"recent_runs"`
}

type SyncController struct {
	runner  SyncRunner
	history RunHistory
}

// NewSyncController accepts a nil history when run history is disabled.
func NewSyncController(runner SyncRunner, history RunHistory) *SyncController {
	return &SyncController{
		runner:  runner,
		history: history,
	}
}

// Status handles GET /api/sync/status. The optional "limit" query
// parameter bounds the number of recent runs returned.
func (s *SyncController) Status(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	response := SyncStatusResponse{
		SchedulerRunning: s.runner.IsRunning(),
		Syncing:          s.runner.IsSyncing(),
		Schedule:         s.runner.Schedule(),
		NextRun:          s.runner.NextRun(),
		LastResult:       s.runner.LastResult(),
		RecentRuns:       []entities.SyncRun{},
	}

	if s.history != nil {
		runs, err := s.history.RecentRuns(limit)
		if err != nil {
			respondInternalError(c, err, "list sync runs")
			return
		}
		response.RecentRuns = runs
	}

	c.JSON(http.StatusOK, response)
}

// Trigger handles POST /api/sync/run.
func (s *SyncController) Trigger(c *gin.Context) {
	err := s.runner.RunNow(entities.SyncTriggerAPI)
	if errors.Is(err, scheduler.ErrAlreadySyncing) {
		respondError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "trigger sync")
		return
	}

	respondAccepted(c, "sync started", nil)
}
