package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
)

var (
	ErrAlreadyInCollection = errors.New("title already in collection")
	ErrNotInCollection     = errors.New("title not in collection")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNotTVShow           = errors.New("progress applies to TV shows only")
)

// MediaUpdate carries the mutable fields of a collection item; nil fields
// are left alone. Clearing the rating is ClearRating, not Rating=0.
type MediaUpdate struct {
	Watched        *bool
	Favorite       *bool
	Watchlist      *bool
	Rating         *int
	ClearRating    bool
	WatchedAt      *time.Time
	CurrentSeason  *int
	CurrentEpisode *int
	TotalEpisodes  *int
}

type MediaService interface {
	Add(ctx context.Context, userID string, item *models.MediaItem) (*models.MediaItem, error)
	List(ctx context.Context, userID string, kind models.MediaKind, filters repository.MediaFilters) ([]models.MediaItem, error)
	Get(ctx context.Context, userID string, id int64) (*models.MediaItem, error)
	Update(ctx context.Context, userID string, id int64, update MediaUpdate) (*models.MediaItem, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type mediaService struct {
	repo         repository.MediaRepository
	achievements AchievementEvaluator
}

func NewMediaService(repo repository.MediaRepository, achievements AchievementEvaluator) MediaService {
	return &mediaService{repo: repo, achievements: achievements}
}

func (s *mediaService) Add(ctx context.Context, userID string, item *models.MediaItem) (*models.MediaItem, error) {
	if item.Rating != nil && (*item.Rating < 1 || *item.Rating > 5) {
		return nil, ErrInvalidRating
	}

	exists, err := s.repo.Exists(ctx, userID, item.Kind, item.CatalogID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInCollection
	}

	item.UserID = userID
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	if item.Watched && s.achievements != nil {
		s.achievements.CheckCollection(ctx, userID)
	}
	return item, nil
}

func (s *mediaService) List(ctx context.Context, userID string, kind models.MediaKind, filters repository.MediaFilters) ([]models.MediaItem, error) {
	return s.repo.List(ctx, userID, kind, filters)
}

func (s *mediaService) Get(ctx context.Context, userID string, id int64) (*models.MediaItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInCollection
		}
		return nil, err
	}
	if item.UserID != userID {
		// Not the caller's row; indistinguishable from absent.
		return nil, ErrNotInCollection
	}
	return item, nil
}

func (s *mediaService) Update(ctx context.Context, userID string, id int64, update MediaUpdate) (*models.MediaItem, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Rating != nil {
		if *update.Rating < 1 || *update.Rating > 5 {
			return nil, ErrInvalidRating
		}
		item.Rating = update.Rating
	}
	if update.ClearRating {
		item.Rating = nil
	}

	if update.Watched != nil {
		item.Watched = *update.Watched
		if !*update.Watched {
			item.WatchedAt = nil
		}
	}
	if update.Favorite != nil {
		item.Favorite = *update.Favorite
	}
	if update.Watchlist != nil {
		item.Watchlist = *update.Watchlist
	}
	if update.WatchedAt != nil {
		item.WatchedAt = update.WatchedAt
	}

	if update.CurrentSeason != nil || update.CurrentEpisode != nil || update.TotalEpisodes != nil {
		if item.Kind != models.KindTV {
			return nil, ErrNotTVShow
		}
		if update.CurrentSeason != nil {
			item.CurrentSeason = update.CurrentSeason
		}
		if update.CurrentEpisode != nil {
			item.CurrentEpisode = update.CurrentEpisode
		}
		if update.TotalEpisodes != nil {
			item.TotalEpisodes = update.TotalEpisodes
		}
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	if s.achievements != nil {
		s.achievements.CheckCollection(ctx, userID)
	}
	return item, nil
}

func (s *mediaService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInCollection
		}
		return err
	}
	return nil
}
