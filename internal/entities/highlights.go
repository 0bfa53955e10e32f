package entities

import (
	"encoding/json"
	"time"
)

// Highlight is a single highlight flattened out of a Readwise export page,
// carrying the metadata of the book it belongs to.
type Highlight struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Note          string          `json:"note"`
	Location      json.RawMessage `json:"location"` // nil when the export sent null or nothing
	HighlightedAt *time.Time      `json:"highlighted_at"`
	URL           string          `json:"url"` // highlight URL, else the book's source URL; may be empty
	Tags          []string        `json:"tags"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	SourceURL  string `json:"source_url"`
	Category   string `json:"category"`
}

// DestinationRecord is a row of the Notion database, keyed by URL.
type DestinationRecord struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Source string   `json:"source,omitempty"`
	Book   string   `json:"book,omitempty"`
	Author string   `json:"author,omitempty"`
	Tags   []string `json:"tags"`
}
