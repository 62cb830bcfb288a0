// Package episodeapi provides a client for the remote episodes API.
package episodeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/domain/episode"
)

// ErrNotFound is returned when the API has no episode with the requested ID.
var ErrNotFound = errors.New("episode not found")

// Config represents episodes API client configuration.
type Config struct {
	BaseURL string
	Limit   int    // Number of episodes to request
	Sort    string // Field to sort by
	Order   string // "asc" or "desc"
	Locale  string // Month names used for PublishedAt
	Timeout time.Duration
}

// Client is an episodes API client.
type Client struct {
	baseURL    string
	limit      int
	sort       string
	order      string
	locale     string
	httpClient *http.Client
}

// FileResponse is the media file of an episode.
type FileResponse struct {
	URL      string  `json:"url"`
	Type     string  `json:"type"`
	Duration seconds `json:"duration"`
}

// EpisodeResponse is a single episode as returned by the API.
type EpisodeResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Members     string       `json:"members"`
	Thumbnail   string       `json:"thumbnail"`
	Description string       `json:"description"`
	PublishedAt string       `json:"published_at"`
	File        FileResponse `json:"file"`
}

// seconds accepts a JSON number or a numeric string.
type seconds int

func (s *seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %s", data)
	}
	*s = seconds(int(f))
	return nil
}

// New creates a new episodes API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("episodes API base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid episodes API base url")
	}

	if cfg.Locale != "" && !IsSupportedLocale(cfg.Locale) {
		return nil, errors.Newf("unsupported locale: %s", cfg.Locale)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 12
	}
	sort := cfg.Sort
	if sort == "" {
		sort = "published_at"
	}
	order := cfg.Order
	if order == "" {
		order = "desc"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		limit:      limit,
		sort:       sort,
		order:      order,
		locale:     cfg.Locale,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchEpisodes retrieves the latest episodes, newest first.
func (c *Client) FetchEpisodes(ctx context.Context) ([]episode.Episode, error) {
	params := url.Values{}
	params.Set("_limit", strconv.Itoa(c.limit))
	params.Set("_sort", c.sort)
	params.Set("_order", c.order)

	body, err := c.get(ctx, "/episodes?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var response []EpisodeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	episodes := make([]episode.Episode, 0, len(response))
	for _, r := range response {
		episodes = append(episodes, c.toEpisode(r))
	}

	zlog.Debug().Msgf("episodeapi: fetched %d episodes", len(episodes))
	return episodes, nil
}

// FetchEpisode retrieves a single episode by ID.
func (c *Client) FetchEpisode(ctx context.Context, id string) (*episode.Episode, error) {
	if id == "" {
		return nil, errors.New("episode id is required")
	}

	body, err := c.get(ctx, "/episodes/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var response EpisodeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	if response.ID == "" {
		return nil, errors.Wrapf(ErrNotFound, "id=%s", id)
	}

	ep := c.toEpisode(response)
	return &ep, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "GET %s", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf("episodes API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func (c *Client) toEpisode(r EpisodeResponse) episode.Episode {
	duration := int(r.File.Duration)
	return episode.Episode{
		ID:               r.ID,
		Title:            r.Title,
		Members:          r.Members,
		Thumbnail:        r.Thumbnail,
		Description:      r.Description,
		Duration:         duration,
		DurationAsString: episode.FormatDuration(duration),
		URL:              r.File.URL,
		PublishedAt:      FormatPublishedAt(r.PublishedAt, c.locale),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
