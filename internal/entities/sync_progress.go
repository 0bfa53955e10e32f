package entities

import (
	"time"
)

type SyncTrigger string

const (
	SyncTriggerManual    SyncTrigger = "manual"
	SyncTriggerScheduled SyncTrigger = "scheduled"
	SyncTriggerAPI       SyncTrigger = "api"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRun is the persisted report of one sync run. It is never read back to
// resume a sync; every run starts from the first export page.
type SyncRun struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	RunID       string      `gorm:"size:36;uniqueIndex" json:"run_id"`
	Trigger     SyncTrigger `gorm:"size:20" json:"trigger"`
	Status      SyncStatus  `gorm:"size:20;index" json:"status"`
	Pages       int         `json:"pages"`
	Fetched     int         `json:"fetched"`
	Created     int         `json:"created"`
	Updated     int         `json:"updated"`
	Unchanged   int         `json:"unchanged"`
	Skipped     int         `json:"skipped"`
	CurrentItem string      `gorm:"size:2048" json:"current_item,omitempty"`
	Error       string      `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

// SyncCounts is a snapshot of the orchestrator counters.
type SyncCounts struct {
	Pages     int `json:"pages"`
	Fetched   int `json:"fetched"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}
