package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/highlights-notion-sync/internal/audit"
	"github.com/mrlokans/highlights-notion-sync/internal/database/runs"
	"github.com/mrlokans/highlights-notion-sync/internal/http"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
	"github.com/mrlokans/highlights-notion-sync/internal/ratelimit"
	"github.com/mrlokans/highlights-notion-sync/internal/readwise"
	"github.com/mrlokans/highlights-notion-sync/internal/scheduler"
	"github.com/mrlokans/highlights-notion-sync/internal/syncer"
)

// =============================================================================
// External Services
// =============================================================================

// PageFetcher implementations
var _ syncer.PageFetcher = (*readwise.Client)(nil)
var _ syncer.PageFetcher = (*audit.RecordingFetcher)(nil)
var _ audit.PageFetcher = (*readwise.Client)(nil)

// Notion client
var _ syncer.DatabaseQuerier = (*notion.Client)(nil)
var _ syncer.PageWriter = (*notion.Client)(nil)

// =============================================================================
// Sync Pipeline
// =============================================================================

var _ syncer.RecordFinder = (*syncer.Matcher)(nil)
var _ syncer.HighlightUpserter = (*syncer.Upserter)(nil)

// Limiter implementations
var _ ratelimit.Limiter = (*ratelimit.FixedDelay)(nil)
var _ ratelimit.Limiter = (*ratelimit.TokenBucket)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

// ProgressReporter implementations
var _ syncer.ProgressReporter = (*runs.Reporter)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.SyncRunner = (*scheduler.SyncScheduler)(nil)
var _ http.RunHistory = (*runs.Repository)(nil)
