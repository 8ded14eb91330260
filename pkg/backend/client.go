package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/borgmon/meeting-alarm/pkg/models"
)

const (
	startPath       = "/api/start"
	stopPath        = "/api/stop"
	statsPath       = "/api/stats"
	checkEmailsPath = "/api/check-emails"
)

// StatusError is returned when the backend answers outside the 2xx range
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

// Client talks to the local mail-scanning backend. Every call is a single
// request with no retry; the HTTP client's own timeout is the only limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = models.DefaultBackendURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Start asks the backend to begin monitoring the mailbox
func (c *Client) Start(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, startPath, nil)
}

// Stop asks the backend to stop monitoring the mailbox
func (c *Client) Stop(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, stopPath, nil)
}

// Stats fetches the backend's aggregate counters
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, statsPath, &stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// CheckEmails fetches candidate meetings. Times are left as the backend sent
// them; callers coerce them on ingestion.
func (c *Client) CheckEmails(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := c.do(ctx, http.MethodGet, checkEmailsPath, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
