package readwise

import (
	"bytes"
	"encoding/json"
)

// ExportResponse represents the response from the Readwise Export API
type ExportResponse struct {
	Count          int         `json:"count"`
	NextPageCursor *FlexString `json:"nextPageCursor"`
	Results        []BookData  `json:"results"`
}

// NextCursor returns the cursor for the following page, or nil when this
// was the last one.
func (r *ExportResponse) NextCursor() *string {
	if r == nil || r.NextPageCursor == nil || *r.NextPageCursor == "" {
		return nil
	}
	cursor := string(*r.NextPageCursor)
	return &cursor
}

// BookData represents a book from the Readwise Export API.
// Only the fields the sync consumes are decoded.
type BookData struct {
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	SourceURL  string          `json:"source_url"`
	Category   string          `json:"category"`
	Highlights []HighlightData `json:"highlights"`
}

// HighlightData represents a highlight from the Readwise Export API
type HighlightData struct {
	ID            FlexString      `json:"id"`
	Text          string          `json:"text"`
	Note          string          `json:"note"`
	Location      json.RawMessage `json:"location"`
	HighlightedAt string          `json:"highlighted_at"`
	CreatedAt     string          `json:"created_at"`
	URL           *string         `json:"url"`
	Tags          []TagData       `json:"tags"`
}

// TagData is a highlight tag. The export sends either bare strings or
// objects with a name; anything else decodes to an empty name.
type TagData struct {
	Name string `json:"name"`
}

func (t *TagData) UnmarshalJSON(data []byte) error {
	t.Name = ""

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t.Name = name
		return nil
	}

	var obj struct {
		Name json.RawMessage `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	if err := json.Unmarshal(obj.Name, &name); err == nil {
		t.Name = name
	}
	return nil
}

// FlexString accepts a JSON string or a bare number (ids and cursors come
// as either) and keeps its textual form.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}

	*s = FlexString(data)
	return nil
}
