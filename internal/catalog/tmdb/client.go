package tmdb

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
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"

	// TMDB allows ~50 req/s; stay comfortably under it.
	rateLimit = 20
	rateBurst = 40
)

// ImageSize is the TMDB poster size fragment used when building image URLs.
type ImageSize string

const (
	ImageW92      ImageSize = "w92"
	ImageW185     ImageSize = "w185"
	ImageW342     ImageSize = "w342"
	ImageW500     ImageSize = "w500"
	ImageOriginal ImageSize = "original"
)

// ImageURL builds a full poster URL from the path fragment TMDB returns.
func ImageURL(path string, size ImageSize) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + string(size) + path
}

// Client is a rate-limited TMDB API client.
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
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) Name() string { return "tmdb" }

type searchResponse struct {
	Page         int           `json:"page"`
	Results      []mediaResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type mediaResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"` // movies
	Name         string  `json:"name"`  // tv
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	EpisodeCount int     `json:"number_of_episodes"`
}

func (c *Client) makeRequest(ctx context.Context, endpoint string, params map[string]string, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("tmdb: %w", catalog.ErrMissingAPIKey)
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	query := u.Query()
	query.Set("api_key", c.apiKey)
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) search(ctx context.Context, endpoint, kind, query string, page int) (*catalog.SearchResult, error) {
	if page <= 0 {
		page = 1
	}
	params := map[string]string{"page": strconv.Itoa(page)}
	if query != "" {
		params["query"] = query
	}

	var resp searchResponse
	if err := c.makeRequest(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, r.toItem(kind))
	}
	return &catalog.SearchResult{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Items:        items,
	}, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	return c.search(ctx, "/search/movie", "movie", query, page)
}

func (c *Client) SearchTV(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	return c.search(ctx, "/search/tv", "tv", query, page)
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*catalog.SearchResult, error) {
	return c.search(ctx, "/movie/popular", "movie", "", page)
}

func (c *Client) MovieDetails(ctx context.Context, id string) (*catalog.Item, error) {
	var r mediaResult
	if err := c.makeRequest(ctx, "/movie/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	item := r.toItem("movie")
	return &item, nil
}

func (c *Client) TVDetails(ctx context.Context, id string) (*catalog.Item, error) {
	var r mediaResult
	if err := c.makeRequest(ctx, "/tv/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	item := r.toItem("tv")
	return &item, nil
}

func (r mediaResult) toItem(kind string) catalog.Item {
	title := r.Title
	date := r.ReleaseDate
	if kind == "tv" {
		title = r.Name
		date = r.FirstAirDate
	}

	year := 0
	if len(date) >= 4 {
		year, _ = strconv.Atoi(date[:4])
	}

	poster := ""
	if r.PosterPath != nil {
		poster = ImageURL(*r.PosterPath, ImageW342)
	}

	return catalog.Item{
		ID:        strconv.Itoa(r.ID),
		Kind:      kind,
		Title:     title,
		Year:      year,
		PosterURL: poster,
		Overview:  r.Overview,
		Rating:    r.VoteAverage,
		Episodes:  r.EpisodeCount,
	}
}
