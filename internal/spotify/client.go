// Package spotify provides a thin relay client for the Spotify Web API.
//
// Handlers attach a session-scoped bearer token to each call; responses
// and error statuses are surfaced verbatim so the HTTP layer can pass
// provider statuses through to the browser.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// BaseURL is the Spotify Web API root.
	BaseURL = "https://api.spotify.com/v1"

	// requestTimeout bounds every outbound call. The upstream service has
	// no SLA toward us; an unbounded call would pin the browser request
	// forever.
	requestTimeout = 10 * time.Second
)

// StatusError is a non-2xx response from the Spotify API. Code is the
// provider's HTTP status; Body is the raw response body, kept so handlers
// can pass provider error detail through where their contract requires it.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spotify API error: status %d", e.Code)
}

// Client calls the Spotify Web API with per-request bearer tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests to point the client
// at a local fake.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a relay client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs an authenticated request and decodes the response
// into result when result is non-nil. Non-2xx responses become a
// *StatusError carrying the provider status and body.
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling spotify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &StatusError{Code: resp.StatusCode, Body: data}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Playlists returns the raw items array of the current user's playlists.
func (c *Client) Playlists(ctx context.Context, token string) (json.RawMessage, error) {
	var page playlistsPage
	if err := c.doRequest(ctx, http.MethodGet, "/me/playlists", token, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Play starts playback of the given track URI on the given device.
func (c *Client) Play(ctx context.Context, token, deviceID, trackURI string) error {
	endpoint := "/me/player/play?device_id=" + url.QueryEscape(deviceID)
	body := map[string][]string{"uris": {trackURI}}
	return c.doRequest(ctx, http.MethodPut, endpoint, token, body, nil)
}

// QueueTrack appends the given track URI to the user's playback queue.
func (c *Client) QueueTrack(ctx context.Context, token, trackURI string) error {
	endpoint := "/me/player/queue?uri=" + url.QueryEscape(trackURI)
	return c.doRequest(ctx, http.MethodPost, endpoint, token, nil, nil)
}

// PlaylistTracks returns the first page of tracks for a playlist.
// Playlists longer than one page are truncated to the provider's default
// page size; random selection is uniform over that page only.
func (c *Client) PlaylistTracks(ctx context.Context, token, playlistID string) ([]PlaylistTrack, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	var page playlistTracksPage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, token, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context, token string) (*UserProfile, error) {
	var user UserProfile
	if err := c.doRequest(ctx, http.MethodGet, "/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
