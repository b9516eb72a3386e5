package service

import (
	"context"
	"math"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
)

// Per-item viewing time estimates used for the hours-watched figure.
const (
	hoursPerMovie   = 2.0
	hoursPerEpisode = 0.75
)

// Stats summarizes a user's watched collection. An empty collection is
// all zeros, never an error, and AverageRating is 0 rather than NaN.
type Stats struct {
	MoviesWatched  int     `json:"movies_watched"`
	ShowsWatched   int     `json:"shows_watched"`
	TotalEpisodes  int     `json:"total_episodes"`
	HoursWatched   int     `json:"hours_watched"`
	FavoriteMovies int     `json:"favorite_movies"`
	FavoriteShows  int     `json:"favorite_shows"`
	AverageRating  float64 `json:"average_rating"`
}

type StatsService interface {
	GetStats(ctx context.Context, userID string) (*Stats, error)
}

type statsService struct {
	mediaRepo repository.MediaRepository
}

func NewStatsService(mediaRepo repository.MediaRepository) StatsService {
	return &statsService{mediaRepo: mediaRepo}
}

func (s *statsService) GetStats(ctx context.Context, userID string) (*Stats, error) {
	movies, err := s.mediaRepo.ListWatched(ctx, userID, models.KindMovie)
	if err != nil {
		return nil, err
	}
	shows, err := s.mediaRepo.ListWatched(ctx, userID, models.KindTV)
	if err != nil {
		return nil, err
	}
	return Compute(movies, shows), nil
}

// Compute derives the summary from watched rows. Split out so it is
// testable without a repository.
func Compute(movies, shows []models.MediaItem) *Stats {
	stats := &Stats{
		MoviesWatched: len(movies),
		ShowsWatched:  len(shows),
	}

	var ratingSum, ratingCount int
	tally := func(item models.MediaItem) {
		// Null and zero ratings stay out of the average's denominator.
		if item.Rating != nil && *item.Rating > 0 {
			ratingSum += *item.Rating
			ratingCount++
		}
	}

	for _, m := range movies {
		if m.Favorite {
			stats.FavoriteMovies++
		}
		tally(m)
	}
	for _, sh := range shows {
		if sh.Favorite {
			stats.FavoriteShows++
		}
		if sh.TotalEpisodes != nil {
			stats.TotalEpisodes += *sh.TotalEpisodes
		}
		tally(sh)
	}

	hours := float64(stats.MoviesWatched)*hoursPerMovie + float64(stats.TotalEpisodes)*hoursPerEpisode
	stats.HoursWatched = int(math.Round(hours))

	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats
}
