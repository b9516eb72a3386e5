package models

import "time"

// MediaKind discriminates the two collection variants. Movies and shows
// share one table; TV-only progress fields stay nil for movies.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

type MediaItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_media_user_kind" json:"user_id"`
	Kind       MediaKind `gorm:"type:varchar(10);not null;index:idx_media_user_kind" json:"kind"`
	CatalogID  string    `gorm:"not null" json:"catalog_id"` // id in the external catalog
	Title      string    `gorm:"not null" json:"title"`
	Year       int       `json:"year"`
	PosterPath *string   `json:"poster_path,omitempty"`
	Overview   *string   `json:"overview,omitempty"`

	// The three flags are independent, none excludes another.
	Watched   bool `gorm:"default:false;not null" json:"watched"`
	Favorite  bool `gorm:"default:false;not null" json:"favorite"`
	Watchlist bool `gorm:"default:false;not null" json:"watchlist"`

	Rating    *int       `gorm:"check:rating >= 1 AND rating <= 5" json:"rating,omitempty"`
	WatchedAt *time.Time `json:"watched_at,omitempty"`

	// TV progress counters
	CurrentSeason  *int `json:"current_season,omitempty"`
	CurrentEpisode *int `json:"current_episode,omitempty"`
	TotalEpisodes  *int `json:"total_episodes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (MediaItem) TableName() string {
	return "media_items"
}
