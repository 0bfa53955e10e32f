package readwise

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
)

// Normalize flattens a page of export results into highlights, keeping book
// order and then highlight order within each book. It never drops a
// highlight: malformed fields are defaulted instead.
func Normalize(books []BookData) []entities.Highlight {
	total := 0
	for _, book := range books {
		total += len(book.Highlights)
	}

	highlights := make([]entities.Highlight, 0, total)
	for _, book := range books {
		for _, h := range book.Highlights {
			highlights = append(highlights, normalizeHighlight(book, h))
		}
	}
	return highlights
}

func normalizeHighlight(book BookData, h HighlightData) entities.Highlight {
	url := book.SourceURL
	if h.URL != nil && *h.URL != "" {
		url = *h.URL
	}

	return entities.Highlight{
		ID:            string(h.ID),
		Text:          h.Text,
		Note:          h.Note,
		Location:      normalizeLocation(h.Location),
		HighlightedAt: firstTimestamp(h.HighlightedAt, h.CreatedAt),
		URL:           url,
		Tags:          tagNames(h.Tags),
		BookTitle:     book.Title,
		BookAuthor:    book.Author,
		SourceURL:     book.SourceURL,
		Category:      book.Category,
	}
}

// tagNames keeps non-empty names in order, duplicates included.
func tagNames(tags []TagData) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag.Name == "" {
			continue
		}
		names = append(names, tag.Name)
	}
	return names
}

func normalizeLocation(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	location := make(json.RawMessage, len(trimmed))
	copy(location, trimmed)
	return location
}

// firstTimestamp returns the first value that parses as RFC 3339.
func firstTimestamp(values ...string) *time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}
