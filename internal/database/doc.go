// Package database provides the run history store.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── runs/            # Sync run reports
//
// # Usage
//
//	db, err := database.NewDatabase("./sync-history.db")
//	repo := runs.NewRepository(db.DB)
//	reporter := repo.NewReporter(entities.SyncTriggerManual)
//	syncer.SetProgressReporter(reporter)
//
// Run history is a report only. Nothing in it is read back to decide what a
// sync fetches or writes.
package database
