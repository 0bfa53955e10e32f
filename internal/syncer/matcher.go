package syncer

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
)

// DatabaseQuerier runs filtered database queries.
type DatabaseQuerier interface {
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Matcher finds the destination record for a URL.
type Matcher struct {
	client     DatabaseQuerier
	databaseID string
}

func NewMatcher(client DatabaseQuerier, databaseID string) *Matcher {
	return &Matcher{client: client, databaseID: databaseID}
}

// FindByURL returns the record whose URL property equals url exactly, or nil
// when there is none. Only the first match is considered; duplicates in the
// database are not reconciled.
func (m *Matcher) FindByURL(ctx context.Context, url string) (*entities.DestinationRecord, error) {
	resp, err := m.client.QueryDatabase(ctx, m.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: PropURL,
			URL:      &notionapi.TextFilterCondition{Equals: url},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("find record by url: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}

	record := recordFromPage(resp.Results[0])
	return &record, nil
}
