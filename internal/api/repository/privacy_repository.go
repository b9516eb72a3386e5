package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cinelog/internal/api/models"
)

type PrivacyRepository interface {
	// GetOrCreate returns the user's settings row, provisioning defaults
	// on first read. The insert is ON CONFLICT DO NOTHING so two
	// concurrent first reads for a brand-new user both come back with the
	// same row.
	GetOrCreate(ctx context.Context, userID string) (*models.PrivacySettings, error)
	// FindByUserIDs batch-fetches existing rows; users without a row are
	// simply absent and fall back to the defaults on the caller's side.
	FindByUserIDs(ctx context.Context, userIDs []string) ([]models.PrivacySettings, error)
	Upsert(ctx context.Context, settings *models.PrivacySettings) error
}

type privacyRepository struct {
	db *gorm.DB
}

func NewPrivacyRepository(db *gorm.DB) PrivacyRepository {
	return &privacyRepository{db: db}
}

func (r *privacyRepository) GetOrCreate(ctx context.Context, userID string) (*models.PrivacySettings, error) {
	defaults := models.DefaultPrivacySettings(userID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(defaults).Error; err != nil {
		return nil, fmt.Errorf("provision privacy settings: %w", err)
	}

	var settings models.PrivacySettings
	if err := r.db.WithContext(ctx).
		First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("get privacy settings: %w", err)
	}
	return &settings, nil
}

func (r *privacyRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.PrivacySettings, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var settings []models.PrivacySettings
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("find privacy settings: %w", err)
	}
	return settings, nil
}

func (r *privacyRepository) Upsert(ctx context.Context, settings *models.PrivacySettings) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error; err != nil {
		return fmt.Errorf("upsert privacy settings: %w", err)
	}
	return nil
}
