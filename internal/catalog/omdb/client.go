package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"cinelog/internal/catalog"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"

	// Free-tier OMDb keys are capped at 1000 requests/day; throttle hard.
	rateLimit = 1
	rateBurst = 5
)

// Client is a rate-limited OMDb API client. OMDb paginates search results
// 10 per page and has no popularity endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) Name() string { return "omdb" }

type searchResponse struct {
	Search       []searchEntry `json:"Search"`
	TotalResults string        `json:"totalResults"`
	Response     string        `json:"Response"`
	Error        string        `json:"Error"`
}

type searchEntry struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type detailsResponse struct {
	Title        string `json:"Title"`
	Year         string `json:"Year"`
	Plot         string `json:"Plot"`
	Poster       string `json:"Poster"`
	IMDbRating   string `json:"imdbRating"`
	IMDbID       string `json:"imdbID"`
	Type         string `json:"Type"`
	TotalSeasons string `json:"totalSeasons"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

func (c *Client) makeRequest(ctx context.Context, params map[string]string, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("omdb: %w", catalog.ErrMissingAPIKey)
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	query := u.Query()
	query.Set("apikey", c.apiKey)
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) search(ctx context.Context, mediaType, query string, page int) (*catalog.SearchResult, error) {
	if page <= 0 {
		page = 1
	}

	var resp searchResponse
	err := c.makeRequest(ctx, map[string]string{
		"s":    query,
		"type": mediaType,
		"page": strconv.Itoa(page),
	}, &resp)
	if err != nil {
		return nil, err
	}
	// OMDb reports "Movie not found!" as an error response; treat it as an
	// empty page, not a failure.
	if resp.Response != "True" {
		return &catalog.SearchResult{Page: page, Items: []catalog.Item{}}, nil
	}

	kind := "movie"
	if mediaType == "series" {
		kind = "tv"
	}
	items := make([]catalog.Item, 0, len(resp.Search))
	for _, e := range resp.Search {
		items = append(items, catalog.Item{
			ID:        e.IMDbID,
			Kind:      kind,
			Title:     e.Title,
			Year:      parseYear(e.Year),
			PosterURL: posterOrEmpty(e.Poster),
		})
	}

	total, _ := strconv.Atoi(resp.TotalResults)
	totalPages := (total + 9) / 10
	return &catalog.SearchResult{
		Page:         page,
		TotalPages:   totalPages,
		TotalResults: total,
		Items:        items,
	}, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	return c.search(ctx, "movie", query, page)
}

func (c *Client) SearchTV(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	return c.search(ctx, "series", query, page)
}

// PopularMovies is not something OMDb offers.
func (c *Client) PopularMovies(ctx context.Context, page int) (*catalog.SearchResult, error) {
	return nil, fmt.Errorf("omdb popular movies: %w", catalog.ErrUnsupported)
}

func (c *Client) details(ctx context.Context, id, kind string) (*catalog.Item, error) {
	var resp detailsResponse
	if err := c.makeRequest(ctx, map[string]string{"i": id, "plot": "short"}, &resp); err != nil {
		return nil, err
	}
	if resp.Response != "True" {
		return nil, fmt.Errorf("omdb: %s", resp.Error)
	}

	rating, _ := strconv.ParseFloat(resp.IMDbRating, 64)
	return &catalog.Item{
		ID:        resp.IMDbID,
		Kind:      kind,
		Title:     resp.Title,
		Year:      parseYear(resp.Year),
		PosterURL: posterOrEmpty(resp.Poster),
		Overview:  resp.Plot,
		Rating:    rating,
	}, nil
}

func (c *Client) MovieDetails(ctx context.Context, id string) (*catalog.Item, error) {
	return c.details(ctx, id, "movie")
}

func (c *Client) TVDetails(ctx context.Context, id string) (*catalog.Item, error) {
	return c.details(ctx, id, "tv")
}

// parseYear handles OMDb's "2008" and series-style "2008-2013" year values.
func parseYear(s string) int {
	if len(s) >= 4 {
		if year, err := strconv.Atoi(s[:4]); err == nil {
			return year
		}
	}
	return 0
}

func posterOrEmpty(poster string) string {
	if poster == "N/A" {
		return ""
	}
	return poster
}
