package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
)

func highlight(url string, tags ...string) entities.Highlight {
	return entities.Highlight{
		ID:        "1",
		URL:       url,
		Tags:      tags,
		BookTitle: "Book A",
	}
}

func TestUpserter_SkipsWithoutURL(t *testing.T) {
	for _, url := range []string{"", "   ", "\t\n"} {
		finder := &fakeFinder{}
		writer := &fakeWriter{createID: "p"}
		upserter := NewUpserter(finder, writer, "db-1")

		created, err := upserter.UpsertURLWithTags(context.Background(), highlight(url, "t1"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, finder.calls, "matcher must not be called for url %q", url)
		assert.Empty(t, writer.creates)
		assert.Empty(t, writer.updates)
	}
}

func TestUpserter_SkipsWithoutTags(t *testing.T) {
	for _, tags := range [][]string{nil, {}, {"", ""}} {
		finder := &fakeFinder{}
		writer := &fakeWriter{createID: "p"}
		upserter := NewUpserter(finder, writer, "db-1")

		outcome, err := upserter.Upsert(context.Background(), highlight("https://x.com", tags...))
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkippedNoTags, outcome)
		assert.True(t, outcome.Skipped())
		assert.Empty(t, finder.calls)
		assert.Empty(t, writer.creates)
	}
}

func TestUpserter_CreatesNewRecord(t *testing.T) {
	finder := &fakeFinder{}
	writer := &fakeWriter{createID: "page-1"}
	upserter := NewUpserter(finder, writer, "db-1")

	h := entities.Highlight{
		URL:        "https://x.com",
		Tags:       []string{"t1", "", "t1"},
		BookTitle:  "  Book A  ",
		BookAuthor: "Ann",
		Category:   "articles",
	}

	created, err := upserter.UpsertURLWithTags(context.Background(), h)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, []string{"https://x.com"}, finder.calls)
	require.Len(t, writer.creates, 1)

	req := writer.creates[0]
	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)
	assert.Equal(t, notionapi.ParentTypeDatabaseID, req.Parent.Type)
	assert.Equal(t, "Book A", notion.Text(req.Properties[PropTitle]))
	assert.Equal(t, "https://x.com", notion.Text(req.Properties[PropURL]))
	assert.Equal(t, "articles", notion.Text(req.Properties[PropSource]))
	assert.Equal(t, "  Book A  ", notion.Text(req.Properties[PropBook]))
	assert.Equal(t, "Ann", notion.Text(req.Properties[PropAuthor]))
	assert.Equal(t, []string{"t1", "t1"}, notion.Names(req.Properties[PropTags]), "new tags are written verbatim")
}

func TestUpserter_OmitsEmptyOptionalProperties(t *testing.T) {
	writer := &fakeWriter{createID: "page-1"}
	upserter := NewUpserter(&fakeFinder{}, writer, "db-1")

	_, err := upserter.Upsert(context.Background(), entities.Highlight{URL: "https://x.com", Tags: []string{"t"}})
	require.NoError(t, err)
	require.Len(t, writer.creates, 1)

	props := writer.creates[0].Properties
	assert.Equal(t, "https://x.com", notion.Text(props[PropTitle]), "title falls back to URL")
	assert.NotContains(t, props, PropSource)
	assert.NotContains(t, props, PropBook)
	assert.NotContains(t, props, PropAuthor)
}

func TestUpserter_CreateWithoutID(t *testing.T) {
	writer := &fakeWriter{}
	upserter := NewUpserter(&fakeFinder{}, writer, "db-1")

	outcome, err := upserter.Upsert(context.Background(), highlight("https://x.com", "t1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnconfirmed, outcome)

	created, err := upserter.UpsertURLWithTags(context.Background(), highlight("https://x.com", "t1"))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUpserter_NoUpdateWhenTagsUnchanged(t *testing.T) {
	finder := &fakeFinder{record: &entities.DestinationRecord{ID: "page-1", Tags: []string{"t1", "t2"}}}
	writer := &fakeWriter{}
	upserter := NewUpserter(finder, writer, "db-1")

	outcome, err := upserter.Upsert(context.Background(), highlight("https://x.com", "t2", "t1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Empty(t, writer.updates)
	assert.Empty(t, writer.creates)
}

func TestUpserter_UpdatesWithMergedTags(t *testing.T) {
	finder := &fakeFinder{record: &entities.DestinationRecord{ID: "page-1", Tags: []string{"t1"}}}
	writer := &fakeWriter{}
	upserter := NewUpserter(finder, writer, "db-1")

	h := highlight("https://x.com", "t1", "t2")
	h.BookAuthor = "Ann"

	created, err := upserter.UpsertURLWithTags(context.Background(), h)
	require.NoError(t, err)
	assert.False(t, created, "updates never count as creation")

	require.Len(t, writer.updates, 1)
	update := writer.updates[0]
	assert.Equal(t, "page-1", update.pageID)
	assert.Equal(t, []string{"t1", "t2"}, notion.Names(update.props[PropTags]))
	assert.Equal(t, "Book A", notion.Text(update.props[PropTitle]), "base properties are re-sent")
	assert.Equal(t, "https://x.com", notion.Text(update.props[PropURL]))
	assert.Equal(t, "Ann", notion.Text(update.props[PropAuthor]))
	assert.NotContains(t, update.props, PropSource)
}

func TestUpserter_UpdateCleansDuplicateExistingTags(t *testing.T) {
	finder := &fakeFinder{record: &entities.DestinationRecord{ID: "page-1", Tags: []string{"t1", "t1"}}}
	writer := &fakeWriter{}

	outcome, err := NewUpserter(finder, writer, "db-1").Upsert(context.Background(), highlight("https://x.com", "t1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	require.Len(t, writer.updates, 1)
	assert.Equal(t, []string{"t1"}, notion.Names(writer.updates[0].props[PropTags]))
}

func TestUpserter_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("finder", func(t *testing.T) {
		_, err := NewUpserter(&fakeFinder{err: boom}, &fakeWriter{}, "db").Upsert(context.Background(), highlight("https://x.com", "t"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("create", func(t *testing.T) {
		_, err := NewUpserter(&fakeFinder{}, &fakeWriter{createErr: boom}, "db").UpsertURLWithTags(context.Background(), highlight("https://x.com", "t"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("update", func(t *testing.T) {
		finder := &fakeFinder{record: &entities.DestinationRecord{ID: "p", Tags: []string{"a"}}}
		_, err := NewUpserter(finder, &fakeWriter{updateErr: boom}, "db").Upsert(context.Background(), highlight("https://x.com", "b"))
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "update record p")
	})
}

func TestUpserter_IdempotentAgainstNotion(t *testing.T) {
	ns := newNotionServer(t)
	client := ns.client()
	upserter := NewUpserter(NewMatcher(client, "db-1"), client, "db-1")
	h := highlight("https://x.com", "a", "b")

	created, err := upserter.UpsertURLWithTags(context.Background(), h)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = upserter.UpsertURLWithTags(context.Background(), h)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, ns.creates, 1, "no duplicate records")
	assert.Empty(t, ns.updates, "second run changes nothing")
	assert.Equal(t, []string{"a", "b"}, ns.tagsFor("https://x.com"))
}

var _ PageWriter = (*notion.Client)(nil)
var _ DatabaseQuerier = (*notion.Client)(nil)
var _ RecordFinder = (*Matcher)(nil)
var _ HighlightUpserter = (*Upserter)(nil)
