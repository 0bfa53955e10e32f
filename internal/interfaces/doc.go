// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Sync Pipeline Interfaces
//
//   - PageFetcher: One page of the Readwise export (internal/syncer/syncer.go)
//   - HighlightUpserter: Create-or-merge of one highlight (internal/syncer/syncer.go)
//   - RecordFinder: Destination lookup by URL (internal/syncer/upserter.go)
//   - PageWriter: Notion page create/update (internal/syncer/upserter.go)
//   - DatabaseQuerier: Notion database query (internal/syncer/matcher.go)
//   - Limiter: Pacing between highlights (internal/ratelimit/limiter.go)
//
// ## Progress Tracking Interfaces
//
//   - ProgressReporter: Run start/progress/completion (internal/syncer/syncer.go)
//
// ## HTTP Interfaces
//
//   - SyncRunner: Scheduler control for the status API (internal/http/sync.go)
//   - RunHistory: Recent runs listing (internal/http/sync.go)
//
// # Adding a New Destination Property
//
//  1. Add the property name constant in internal/syncer/record.go
//
//  2. Set it in baseProperties (internal/syncer/upserter.go) and read it back
//     in recordFromPage
//
//  3. Add it to the property list checked by services.SyncService.Check
//
// # Adding a New Pacing Strategy
//
//  1. Implement Limiter in internal/ratelimit/
//
//     type Adaptive struct { ... }
//
//     func (a *Adaptive) Wait(ctx context.Context) error
//
//     var _ ratelimit.Limiter = (*Adaptive)(nil)
//
//  2. Select it in ratelimit.New and extend the SYNC_RATE_STRATEGY oneof tag
//     in internal/config
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
