package readwise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/mrlokans/highlights-notion-sync/internal/errors"
)

const (
	DefaultBaseURL = "https://readwise.io/api/v2"
	DefaultTimeout = 30 * time.Second

	serviceName = "readwise"
)

// Client interfaces with the Readwise Export API.
// It issues exactly one request per call and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new Readwise API client. An empty baseURL selects the
// public API; a zero timeout selects DefaultTimeout.
func NewClient(token, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *Client) exportURL() string {
	return c.baseURL + "/export/"
}

func (c *Client) authURL() string {
	return c.baseURL + "/auth/"
}

// ValidateToken checks if the configured token is valid by calling the auth endpoint
func (c *Client) ValidateToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(serviceName, "validate token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidToken
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return newAPIError(resp)
	}

	return nil
}

// FetchPage fetches one page of the export. A nil or empty cursor requests
// the first page and omits the pageCursor parameter entirely.
func (c *Client) FetchPage(ctx context.Context, cursor *string) (*ExportResponse, error) {
	u, err := url.Parse(c.exportURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	if cursor != nil && *cursor != "" {
		q := u.Query()
		q.Set("pageCursor", *cursor)
		u.RawQuery = q.Encode()
	}

	return c.doExportRequest(ctx, u.String())
}

func (c *Client) doExportRequest(ctx context.Context, url string) (*ExportResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(serviceName, "fetch export page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var exportResp ExportResponse
	if err := json.NewDecoder(resp.Body).Decode(&exportResp); err != nil {
		return nil, apperrors.NewNetworkError(serviceName, "decode export page", err)
	}

	return &exportResp, nil
}

// newAPIError builds an APIError from a non-success response, picking up the
// "detail" field Readwise puts in its error bodies.
func newAPIError(resp *http.Response) *apperrors.APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &apperrors.APIError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		apiErr.Message = payload.Detail
	}

	return apiErr
}
