package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
)

// MediaFilters narrows a collection listing; nil fields are ignored.
type MediaFilters struct {
	Watched   *bool
	Favorite  *bool
	Watchlist *bool
}

type MediaRepository interface {
	Create(ctx context.Context, item *models.MediaItem) error
	GetByID(ctx context.Context, id int64) (*models.MediaItem, error)
	List(ctx context.Context, userID string, kind models.MediaKind, filters MediaFilters) ([]models.MediaItem, error)
	ListWatched(ctx context.Context, userID string, kind models.MediaKind) ([]models.MediaItem, error)
	Save(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, userID string, id int64) error
	Exists(ctx context.Context, userID string, kind models.MediaKind, catalogID string) (bool, error)
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add to collection: %w", err)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepository) List(ctx context.Context, userID string, kind models.MediaKind, filters MediaFilters) ([]models.MediaItem, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind)
	if filters.Watched != nil {
		q = q.Where("watched = ?", *filters.Watched)
	}
	if filters.Favorite != nil {
		q = q.Where("favorite = ?", *filters.Favorite)
	}
	if filters.Watchlist != nil {
		q = q.Where("watchlist = ?", *filters.Watchlist)
	}

	var items []models.MediaItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return items, nil
}

func (r *mediaRepository) ListWatched(ctx context.Context, userID string, kind models.MediaKind) ([]models.MediaItem, error) {
	watched := true
	return r.List(ctx, userID, kind, MediaFilters{Watched: &watched})
}

func (r *mediaRepository) Save(ctx context.Context, item *models.MediaItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save media item: %w", err)
	}
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, userID string, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.MediaItem{})
	if result.Error != nil {
		return fmt.Errorf("delete media item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *mediaRepository) Exists(ctx context.Context, userID string, kind models.MediaKind, catalogID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MediaItem{}).
		Where("user_id = ? AND kind = ? AND catalog_id = ?", userID, kind, catalogID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
