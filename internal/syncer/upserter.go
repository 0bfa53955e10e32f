package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
)

// Outcome describes what an upsert did.
type Outcome string

const (
	OutcomeSkippedNoURL  Outcome = "skipped_no_url"
	OutcomeSkippedNoTags Outcome = "skipped_no_tags"
	OutcomeCreated       Outcome = "created"
	OutcomeUnconfirmed   Outcome = "create_unconfirmed" // create call succeeded but returned no page id
	OutcomeUpdated       Outcome = "updated"
	OutcomeUnchanged     Outcome = "unchanged"
)

func (o Outcome) Skipped() bool {
	return o == OutcomeSkippedNoURL || o == OutcomeSkippedNoTags
}

// RecordFinder looks up an existing destination record by URL.
type RecordFinder interface {
	FindByURL(ctx context.Context, url string) (*entities.DestinationRecord, error)
}

// PageWriter creates and patches database pages.
type PageWriter interface {
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) (*notionapi.Page, error)
}

// Upserter writes one highlight into the destination database.
type Upserter struct {
	finder     RecordFinder
	writer     PageWriter
	databaseID string
}

func NewUpserter(finder RecordFinder, writer PageWriter, databaseID string) *Upserter {
	return &Upserter{
		finder:     finder,
		writer:     writer,
		databaseID: databaseID,
	}
}

// UpsertURLWithTags reports whether a new record was created. Updates and
// skips both return false.
func (u *Upserter) UpsertURLWithTags(ctx context.Context, h entities.Highlight) (bool, error) {
	outcome, err := u.Upsert(ctx, h)
	if err != nil {
		return false, err
	}
	return outcome == OutcomeCreated, nil
}

// Upsert creates the record for h.URL or merges h.Tags into the existing one.
// Highlights without a URL or without tags are skipped with no API calls.
func (u *Upserter) Upsert(ctx context.Context, h entities.Highlight) (Outcome, error) {
	if strings.TrimSpace(h.URL) == "" {
		slog.Debug("Skipping highlight without URL", "highlight_id", h.ID)
		return OutcomeSkippedNoURL, nil
	}

	tags := nonEmptyTags(h.Tags)
	if len(tags) == 0 {
		slog.Debug("Skipping highlight without tags", "highlight_id", h.ID, "url", h.URL)
		return OutcomeSkippedNoTags, nil
	}

	props := baseProperties(h)

	existing, err := u.finder.FindByURL(ctx, h.URL)
	if err != nil {
		return "", err
	}

	if existing != nil {
		merged := MergeTags(existing.Tags, tags)
		if !tagsDiffer(existing.Tags, merged) {
			slog.Debug("Record already up to date", "url", h.URL, "page_id", existing.ID)
			return OutcomeUnchanged, nil
		}

		props[PropTags] = notion.MultiSelectValue(merged)
		if _, err := u.writer.UpdatePage(ctx, existing.ID, props); err != nil {
			return "", fmt.Errorf("update record %s: %w", existing.ID, err)
		}
		slog.Info("Updated record tags", "url", h.URL, "page_id", existing.ID, "tags", merged)
		return OutcomeUpdated, nil
	}

	props[PropTags] = notion.MultiSelectValue(tags)
	page, err := u.writer.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(u.databaseID),
		},
		Properties: props,
	})
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if page == nil || page.ID == "" {
		slog.Warn("Create returned no page id", "url", h.URL)
		return OutcomeUnconfirmed, nil
	}

	slog.Info("Created record", "url", h.URL, "page_id", page.ID)
	return OutcomeCreated, nil
}

// baseProperties omits Source, Book and Author when empty: Notion treats an
// empty value as "clear the field", an absent key as "leave it".
func baseProperties(h entities.Highlight) notionapi.Properties {
	title := strings.TrimSpace(h.BookTitle)
	if title == "" {
		title = h.URL
	}

	props := notionapi.Properties{
		PropTitle: notion.TitleValue(title),
		PropURL:   notion.URLValue(h.URL),
	}
	if h.Category != "" {
		props[PropSource] = notion.RichTextValue(h.Category)
	}
	if h.BookTitle != "" {
		props[PropBook] = notion.RichTextValue(h.BookTitle)
	}
	if h.BookAuthor != "" {
		props[PropAuthor] = notion.RichTextValue(h.BookAuthor)
	}
	return props
}
