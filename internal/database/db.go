package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/config"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("connected to the database")
	return db, nil
}

// Migrate applies the schema and seeds the static achievement catalog.
// Shared with the sqlite-backed repository tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.MediaItem{},
		&models.Friendship{},
		&models.Notification{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.CustomList{},
		&models.ListItem{},
		&models.PrivacySettings{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return seedAchievements(db)
}

// seedAchievements inserts the static achievement definitions, skipping any
// code that already exists so migration stays idempotent.
func seedAchievements(db *gorm.DB) error {
	catalog := []models.Achievement{
		{Code: "first_watch", Name: "First Watch", Description: "Mark your first title as watched", Threshold: 1},
		{Code: "movie_buff", Name: "Movie Buff", Description: "Watch 10 movies", Threshold: 10},
		{Code: "binge_watcher", Name: "Binge Watcher", Description: "Watch 100 episodes", Threshold: 100},
		{Code: "social_butterfly", Name: "Social Butterfly", Description: "Make 5 friends", Threshold: 5},
	}

	for _, a := range catalog {
		var count int64
		if err := db.Model(&models.Achievement{}).Where("code = ?", a.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("seed achievements: %w", err)
		}
		if count == 0 {
			if err := db.Create(&a).Error; err != nil {
				return fmt.Errorf("seed achievements: %w", err)
			}
		}
	}
	return nil
}
