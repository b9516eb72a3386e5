package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
)

func intPtr(v int) *int { return &v }

func TestCompute_EmptyCollection(t *testing.T) {
	stats := Compute(nil, nil)

	assert.Equal(t, 0, stats.MoviesWatched)
	assert.Equal(t, 0, stats.ShowsWatched)
	assert.Equal(t, 0, stats.TotalEpisodes)
	assert.Equal(t, 0, stats.HoursWatched)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.False(t, math.IsNaN(stats.AverageRating))
}

func TestCompute_AverageRating(t *testing.T) {
	movies := []models.MediaItem{
		{Kind: models.KindMovie, Rating: intPtr(4)},
		{Kind: models.KindMovie, Rating: intPtr(5)},
		// Unrated and zero-rated stay out of the average's denominator.
		{Kind: models.KindMovie},
		{Kind: models.KindMovie, Rating: intPtr(0)},
	}
	shows := []models.MediaItem{
		{Kind: models.KindTV, Rating: intPtr(3)},
	}

	stats := Compute(movies, shows)
	// (4 + 5 + 3) / 3, rounded to one decimal.
	assert.Equal(t, 4.0, stats.AverageRating)
}

func TestCompute_AverageRatingRounds(t *testing.T) {
	movies := []models.MediaItem{
		{Kind: models.KindMovie, Rating: intPtr(4)},
		{Kind: models.KindMovie, Rating: intPtr(5)},
		{Kind: models.KindMovie, Rating: intPtr(5)},
	}

	stats := Compute(movies, nil)
	// 14/3 = 4.666..., one decimal.
	assert.Equal(t, 4.7, stats.AverageRating)
}

func TestCompute_HoursWatched(t *testing.T) {
	movies := []models.MediaItem{
		{Kind: models.KindMovie}, {Kind: models.KindMovie}, {Kind: models.KindMovie},
	}
	shows := []models.MediaItem{
		{Kind: models.KindTV, TotalEpisodes: intPtr(10)},
	}

	stats := Compute(movies, shows)
	assert.Equal(t, 3, stats.MoviesWatched)
	assert.Equal(t, 1, stats.ShowsWatched)
	assert.Equal(t, 10, stats.TotalEpisodes)
	// 3 movies * 2h + 10 episodes * 0.75h = 13.5, rounded to 14.
	assert.Equal(t, 14, stats.HoursWatched)
}

func TestCompute_Favorites(t *testing.T) {
	movies := []models.MediaItem{
		{Kind: models.KindMovie, Favorite: true},
		{Kind: models.KindMovie},
	}
	shows := []models.MediaItem{
		{Kind: models.KindTV, Favorite: true},
		{Kind: models.KindTV, Favorite: true},
	}

	stats := Compute(movies, shows)
	assert.Equal(t, 1, stats.FavoriteMovies)
	assert.Equal(t, 2, stats.FavoriteShows)
}

func TestGetStats_OnlyCountsWatched(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	mediaRepo := repository.NewMediaRepository(db)
	require.NoError(t, mediaRepo.Create(ctx, &models.MediaItem{
		UserID: user.ID, Kind: models.KindMovie, CatalogID: "603", Title: "The Matrix", Watched: true, Rating: intPtr(5),
	}))
	require.NoError(t, mediaRepo.Create(ctx, &models.MediaItem{
		UserID: user.ID, Kind: models.KindMovie, CatalogID: "604", Title: "The Matrix Reloaded", Watchlist: true,
	}))

	stats, err := NewStatsService(mediaRepo).GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MoviesWatched)
	assert.Equal(t, 2, stats.HoursWatched)
	assert.Equal(t, 5.0, stats.AverageRating)
}
