package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps a Provider with a Redis response cache. Cache
// failures never fail the call; they just fall through to the provider.
type CachedProvider struct {
	provider Provider
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewCachedProvider(provider Provider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		client:   client,
		ttl:      ttl,
		logger:   logger,
	}
}

// NewRedisClient connects and pings; callers running without a cache pass a
// nil client to NewCachedProvider and every lookup is a miss.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func (c *CachedProvider) Name() string { return c.provider.Name() }

func (c *CachedProvider) SearchMovies(ctx context.Context, query string, page int) (*SearchResult, error) {
	key := fmt.Sprintf("catalog:%s:search:movie:%s:%d", c.provider.Name(), query, page)
	return c.cachedSearch(ctx, key, func() (*SearchResult, error) {
		return c.provider.SearchMovies(ctx, query, page)
	})
}

func (c *CachedProvider) SearchTV(ctx context.Context, query string, page int) (*SearchResult, error) {
	key := fmt.Sprintf("catalog:%s:search:tv:%s:%d", c.provider.Name(), query, page)
	return c.cachedSearch(ctx, key, func() (*SearchResult, error) {
		return c.provider.SearchTV(ctx, query, page)
	})
}

func (c *CachedProvider) PopularMovies(ctx context.Context, page int) (*SearchResult, error) {
	key := fmt.Sprintf("catalog:%s:popular:movie:%d", c.provider.Name(), page)
	return c.cachedSearch(ctx, key, func() (*SearchResult, error) {
		return c.provider.PopularMovies(ctx, page)
	})
}

func (c *CachedProvider) MovieDetails(ctx context.Context, id string) (*Item, error) {
	key := fmt.Sprintf("catalog:%s:movie:%s", c.provider.Name(), id)
	return cached(ctx, c, key, func() (*Item, error) {
		return c.provider.MovieDetails(ctx, id)
	})
}

func (c *CachedProvider) TVDetails(ctx context.Context, id string) (*Item, error) {
	key := fmt.Sprintf("catalog:%s:tv:%s", c.provider.Name(), id)
	return cached(ctx, c, key, func() (*Item, error) {
		return c.provider.TVDetails(ctx, id)
	})
}

func (c *CachedProvider) cachedSearch(ctx context.Context, key string, fetch func() (*SearchResult, error)) (*SearchResult, error) {
	return cached(ctx, c, key, fetch)
}

func cached[T any](ctx context.Context, c *CachedProvider, key string, fetch func() (*T, error)) (*T, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var result T
			if err := json.Unmarshal(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.logger.Warn("catalog cache write failed", "key", key, "error", err)
			}
		}
	}
	return result, nil
}
