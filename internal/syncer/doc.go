// Package syncer pushes normalized Readwise highlights into a Notion database.
//
// Records are keyed by URL. A highlight with a new URL creates a row; a
// highlight whose URL already exists only ever adds tags to that row.
//
// # Components
//
//   - Matcher looks up the row for a URL (exact match, first result only).
//   - Upserter decides create vs. update and merges tag sets.
//   - Syncer drives the export page loop, counts outcomes and paces writes.
//
// # Usage
//
//	matcher := syncer.NewMatcher(notionClient, databaseID)
//	upserter := syncer.NewUpserter(matcher, notionClient, databaseID)
//	s := syncer.NewSyncer(readwiseClient, upserter, limiter)
//	result, err := s.Run(ctx)
package syncer
