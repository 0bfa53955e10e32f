package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// maxTextLength is the Notion limit for a single rich text content string.
const maxTextLength = 2000

// NewRichText builds a single text segment, truncated to the API limit.
func NewRichText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: "text",
		Text: &notionapi.Text{Content: truncate(content, maxTextLength)},
	}}
}

// PlainText concatenates the plain text of all segments.
func PlainText(segments []notionapi.RichText) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch {
		case seg.PlainText != "":
			sb.WriteString(seg.PlainText)
		case seg.Text != nil:
			sb.WriteString(seg.Text.Content)
		}
	}
	return sb.String()
}

func TitleValue(content string) notionapi.Property {
	return &notionapi.TitleProperty{Type: "title", Title: NewRichText(content)}
}

func RichTextValue(content string) notionapi.Property {
	return &notionapi.RichTextProperty{Type: "rich_text", RichText: NewRichText(content)}
}

func URLValue(url string) notionapi.Property {
	return &notionapi.URLProperty{Type: "url", URL: url}
}

func MultiSelectValue(names []string) notionapi.Property {
	options := make([]notionapi.Option, 0, len(names))
	for _, name := range names {
		options = append(options, notionapi.Option{Name: name})
	}
	return &notionapi.MultiSelectProperty{Type: "multi_select", MultiSelect: options}
}

// Text returns the textual content of title, rich text and url values.
// Anything else, including a missing property, reads as "".
func Text(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return PlainText(v.Title)
	case *notionapi.RichTextProperty:
		return PlainText(v.RichText)
	case *notionapi.URLProperty:
		return v.URL
	}
	return ""
}

// Names returns the option names of a multi-select value in order.
func Names(p notionapi.Property) []string {
	v, ok := p.(*notionapi.MultiSelectProperty)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(v.MultiSelect))
	for _, opt := range v.MultiSelect {
		names = append(names, opt.Name)
	}
	return names
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
