package notion

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	apperrors "github.com/mrlokans/highlights-notion-sync/internal/errors"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
	DefaultTimeout = 30 * time.Second

	serviceName = "notion"
	apiPrefix   = "/v1"
)

// Client narrows notionapi to the calls the sync makes and maps its errors
// onto the application error types.
type Client struct {
	api        *notionapi.Client
	httpClient *http.Client
	baseURL    string
	version    string
}

// NewClient creates a Notion client. Empty baseURL/version and a zero
// timeout select the defaults.
func NewClient(token, baseURL, version string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if version == "" {
		version = DefaultVersion
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := &http.Client{Timeout: timeout}
	if baseURL != DefaultBaseURL {
		if target, err := url.Parse(baseURL); err == nil && target.Host != "" {
			httpClient.Transport = &rebaseTransport{target: target, next: http.DefaultTransport}
		}
	}

	api := notionapi.NewClient(
		notionapi.Token(token),
		notionapi.WithHTTPClient(httpClient),
		notionapi.WithVersion(version),
		// A 429 surfaces to the caller instead of sleeping inside the client.
		notionapi.WithRetry(1),
	)

	return &Client{
		api:        api,
		httpClient: httpClient,
		baseURL:    baseURL,
		version:    version,
	}
}

// RetrieveDatabase fetches database metadata, used to check access.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return nil, wrapError("retrieve database", err)
	}
	return db, nil
}

// QueryDatabase runs a filtered query against a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, wrapError("query database", err)
	}
	return resp, nil
}

// CreatePage creates a new row in the parent database.
func (c *Client) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	page, err := c.api.Page.Create(ctx, req)
	if err != nil {
		return nil, wrapError("create page", err)
	}
	return page, nil
}

// UpdatePage patches the given properties of a page. Properties not present
// in the map are left untouched.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) (*notionapi.Page, error) {
	page, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{Properties: props})
	if err != nil {
		return nil, wrapError("update page", err)
	}
	return page, nil
}

// wrapError maps notionapi failures. A non-JSON error body comes back from
// notionapi as a decode error without the status, so it lands in the
// network bucket along with transport failures.
func wrapError(op string, err error) error {
	var notionErr *notionapi.Error
	if errors.As(err, &notionErr) {
		return &apperrors.APIError{
			Service:    serviceName,
			StatusCode: notionErr.Status,
			Code:       string(notionErr.Code),
			Message:    notionErr.Message,
		}
	}

	var rateErr *notionapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return &apperrors.APIError{
			Service:    serviceName,
			StatusCode: http.StatusTooManyRequests,
			Code:       "rate_limited",
			Message:    rateErr.Message,
		}
	}

	return apperrors.NewNetworkError(serviceName, op, err)
}

// rebaseTransport sends requests built for api.notion.com to another host,
// dropping the version prefix notionapi adds to every path.
type rebaseTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (t *rebaseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.URL.Path = t.target.Path + strings.TrimPrefix(req.URL.Path, apiPrefix)
	out.URL.RawPath = ""
	out.Host = t.target.Host
	return t.next.RoundTrip(out)
}
