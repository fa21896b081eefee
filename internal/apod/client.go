// Package apod wraps NASA's Astronomy Picture of the Day API.
package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/BarishY/Astroverse/internal/config"
)

// DateLayout is the wire format for APOD dates. The date string doubles
// as the stable post identifier throughout the app.
const DateLayout = "2006-01-02"

// recentWindowDays is how far back the browse feed reaches.
const recentWindowDays = 30

// Entry is a single APOD item as returned by the NASA API.
type Entry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright,omitempty"`
}

// Client talks to the APOD API with a fixed key and base URL.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.NASAAPIURL,
		apiKey:  cfg.NASAAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

// GetByDate fetches the entry for a single date (YYYY-MM-DD).
func (c *Client) GetByDate(ctx context.Context, date string) (*Entry, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid apod date %q: %w", date, err)
	}
	body, err := c.get(ctx, url.Values{"date": {date}})
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decoding apod response: %w", err)
	}
	return &entry, nil
}

// GetRange fetches all entries between start and end inclusive, newest first.
func (c *Client) GetRange(ctx context.Context, start, end string) ([]Entry, error) {
	for _, d := range []string{start, end} {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid apod date %q: %w", d, err)
		}
	}
	body, err := c.get(ctx, url.Values{"start_date": {start}, "end_date": {end}})
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding apod response: %w", err)
	}
	// The API returns oldest first; the feed shows newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Recent fetches the trailing window of entries ending today, newest first.
func (c *Client) Recent(ctx context.Context) ([]Entry, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -recentWindowDays)
	return c.GetRange(ctx, start.Format(DateLayout), end.Format(DateLayout))
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building apod request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling apod api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading apod response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apod api returned status %d", resp.StatusCode)
	}
	return body, nil
}
