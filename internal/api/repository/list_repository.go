package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
)

type ListRepository interface {
	Create(ctx context.Context, list *models.CustomList) error
	FindByID(ctx context.Context, id int64) (*models.CustomList, error)
	ListByUser(ctx context.Context, userID string) ([]models.CustomList, error)
	Rename(ctx context.Context, id int64, name string) error
	// Delete removes the list's items before the list itself; there is no
	// cascading constraint to rely on.
	Delete(ctx context.Context, id int64) error
	AddItem(ctx context.Context, item *models.ListItem) error
	RemoveItem(ctx context.Context, listID, mediaItemID int64) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.CustomList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

func (r *listRepository) FindByID(ctx context.Context, id int64) (*models.CustomList, error) {
	var list models.CustomList
	if err := r.db.WithContext(ctx).
		Preload("Items.MediaItem").
		First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) ListByUser(ctx context.Context, userID string) ([]models.CustomList, error) {
	var lists []models.CustomList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("list custom lists: %w", err)
	}
	return lists, nil
}

func (r *listRepository) Rename(ctx context.Context, id int64, name string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomList{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("rename list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ListItem{}, "list_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete list items: %w", err)
		}
		if err := tx.Delete(&models.CustomList{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		return nil
	})
}

func (r *listRepository) AddItem(ctx context.Context, item *models.ListItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return gorm.ErrDuplicatedKey
		}
		return fmt.Errorf("add list item: %w", err)
	}
	return nil
}

func (r *listRepository) RemoveItem(ctx context.Context, listID, mediaItemID int64) error {
	result := r.db.WithContext(ctx).
		Where("list_id = ? AND media_item_id = ?", listID, mediaItemID).
		Delete(&models.ListItem{})
	if result.Error != nil {
		return fmt.Errorf("remove list item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
