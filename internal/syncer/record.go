package syncer

import (
	"github.com/jomei/notionapi"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
)

// Property names of the destination database.
const (
	PropTitle  = "Title"
	PropURL    = "URL"
	PropSource = "Source"
	PropBook   = "Book"
	PropAuthor = "Author"
	PropTags   = "Tags"
)

func recordFromPage(page notionapi.Page) entities.DestinationRecord {
	props := page.Properties
	return entities.DestinationRecord{
		ID:     string(page.ID),
		Title:  notion.Text(props[PropTitle]),
		URL:    notion.Text(props[PropURL]),
		Source: notion.Text(props[PropSource]),
		Book:   notion.Text(props[PropBook]),
		Author: notion.Text(props[PropAuthor]),
		Tags:   notion.Names(props[PropTags]),
	}
}
