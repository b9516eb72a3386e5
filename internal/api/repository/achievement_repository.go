package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cinelog/internal/api/models"
)

type AchievementRepository interface {
	ListAll(ctx context.Context) ([]models.Achievement, error)
	FindByCode(ctx context.Context, code string) (*models.Achievement, error)
	ListEarned(ctx context.Context, userID string) ([]models.UserAchievement, error)
	HasEarned(ctx context.Context, userID string, achievementID int64) (bool, error)
	// Award is idempotent: re-awarding an already-earned achievement is a
	// no-op thanks to the unique (user, achievement) index.
	Award(ctx context.Context, userID string, achievementID int64) (bool, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListAll(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).Order("id").Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepository) FindByCode(ctx context.Context, code string) (*models.Achievement, error) {
	var a models.Achievement
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *achievementRepository) ListEarned(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var earned []models.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *achievementRepository) HasEarned(ctx context.Context, userID string, achievementID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

func (r *achievementRepository) Award(ctx context.Context, userID string, achievementID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserAchievement{UserID: userID, AchievementID: achievementID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
