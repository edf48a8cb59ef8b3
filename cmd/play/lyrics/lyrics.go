// Package lyrics fetches song lyrics from the lyrics.ovh API.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.lyrics.ovh/v1"

	FetchingText = "Fetching lyrics..."
	NotFoundText = "Lyrics not found."
	FailedText   = "Lyrics API failed."
)

var ErrNotFound = errors.New("lyrics not found")

// response is the lyrics.ovh payload. Misses come back as {"error": "..."}.
type response struct {
	Lyrics string `json:"lyrics"`
	Error  string `json:"error"`
}

// Client talks to a lyrics.ovh compatible API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *slog.Logger
}

// NewClient creates a client with a per-request timeout. An empty baseURL
// means DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		log:     slog.Default(),
	}
}

// Query derives the search term from a track title by cutting at the first
// ".", which strips file extensions.
func Query(title string) string {
	if i := strings.Index(title, "."); i >= 0 {
		return title[:i]
	}
	return title
}

// URL builds the lookup URL for artist and title.
func (c *Client) URL(artist, title string) string {
	return c.BaseURL + "/" + url.PathEscape(artist) + "/" + url.PathEscape(Query(title))
}

// Fetch performs one lookup. It returns ErrNotFound when the service answers
// but has no lyrics, and a wrapped transport or decoding error otherwise.
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(artist, title), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "music-player/lyrics")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting lyrics: %w", err)
	}
	defer resp.Body.Close()

	// 4xx answers still carry a JSON body and decode to a miss
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("lyrics API returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if payload.Lyrics == "" {
		return "", ErrNotFound
	}
	return payload.Lyrics, nil
}

// Resolve returns the text to display for a track: the lyrics, or one of
// NotFoundText / FailedText.
func (c *Client) Resolve(ctx context.Context, artist, title string) string {
	text, err := c.Fetch(ctx, artist, title)
	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrNotFound):
		c.log.Debug("no lyrics", "artist", artist, "query", Query(title))
		return NotFoundText
	default:
		c.log.Warn("lyrics lookup failed", "artist", artist, "query", Query(title), "error", err)
		return FailedText
	}
}
