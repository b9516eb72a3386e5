package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
)

// AccountRepository owns the irreversible multi-table account deletion.
type AccountRepository interface {
	// DeleteUserCascade removes every row owned by the user plus the user
	// itself in a single transaction, so a failure partway cannot leave a
	// partially deleted account behind. list_items must go before
	// custom_lists; the rest of the order is free.
	DeleteUserCascade(ctx context.Context, userID string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.UserAchievement{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete user achievements: %w", err)
		}
		if err := tx.Delete(&models.Notification{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := tx.Delete(&models.Friendship{}, "user_lo_id = ? OR user_hi_id = ?", userID, userID).Error; err != nil {
			return fmt.Errorf("delete friendships: %w", err)
		}

		// List items of the user's own lists, then the lists.
		var listIDs []int64
		if err := tx.Model(&models.CustomList{}).
			Where("user_id = ?", userID).
			Pluck("id", &listIDs).Error; err != nil {
			return fmt.Errorf("collect list ids: %w", err)
		}
		if len(listIDs) > 0 {
			if err := tx.Delete(&models.ListItem{}, "list_id IN ?", listIDs).Error; err != nil {
				return fmt.Errorf("delete list items: %w", err)
			}
		}
		if err := tx.Delete(&models.CustomList{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete custom lists: %w", err)
		}

		if err := tx.Delete(&models.MediaItem{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete media items: %w", err)
		}
		if err := tx.Delete(&models.PrivacySettings{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete privacy settings: %w", err)
		}

		// Dropping refresh tokens invalidates every live session.
		if err := tx.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete refresh tokens: %w", err)
		}

		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
