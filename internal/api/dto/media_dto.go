package dto

import "time"

type AddMediaRequest struct {
	CatalogID  string  `json:"catalog_id" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	Year       int     `json:"year"`
	PosterPath *string `json:"poster_path"`
	Overview   *string `json:"overview"`

	Watched   bool `json:"watched"`
	Favorite  bool `json:"favorite"`
	Watchlist bool `json:"watchlist"`

	Rating        *int `json:"rating"`
	TotalEpisodes *int `json:"total_episodes"`
}

// UpdateMediaRequest carries a partial update; absent fields change
// nothing. clear_rating beats rating when both are sent.
type UpdateMediaRequest struct {
	Watched        *bool      `json:"watched"`
	Favorite       *bool      `json:"favorite"`
	Watchlist      *bool      `json:"watchlist"`
	Rating         *int       `json:"rating"`
	ClearRating    bool       `json:"clear_rating"`
	WatchedAt      *time.Time `json:"watched_at"`
	CurrentSeason  *int       `json:"current_season"`
	CurrentEpisode *int       `json:"current_episode"`
	TotalEpisodes  *int       `json:"total_episodes"`
}
