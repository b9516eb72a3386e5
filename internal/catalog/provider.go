// Package catalog abstracts the external movie/TV metadata providers. Two
// interchangeable implementations exist (TMDB, OMDb); which one serves a
// deployment is configuration, not code.
package catalog

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned per call when the provider has no key
// configured. Startup does not fail on a missing catalog key.
var ErrMissingAPIKey = errors.New("catalog API key is not configured")

// ErrUnsupported marks an operation a provider cannot serve.
var ErrUnsupported = errors.New("operation not supported by this catalog provider")

// Item is the provider-neutral shape of one catalog entry.
type Item struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"` // movie | tv
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	PosterURL string  `json:"poster_url,omitempty"`
	Overview  string  `json:"overview,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Episodes  int     `json:"episodes,omitempty"` // tv only, 0 when unknown
}

// SearchResult is one page of catalog results.
type SearchResult struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Items        []Item `json:"items"`
}

type Provider interface {
	Name() string
	SearchMovies(ctx context.Context, query string, page int) (*SearchResult, error)
	SearchTV(ctx context.Context, query string, page int) (*SearchResult, error)
	PopularMovies(ctx context.Context, page int) (*SearchResult, error)
	MovieDetails(ctx context.Context, id string) (*Item, error)
	TVDetails(ctx context.Context, id string) (*Item, error)
}
