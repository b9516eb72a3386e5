package models

import "time"

// Achievement is a static catalog row; earning is computed server-side by
// the evaluator and recorded in UserAchievement.
type Achievement struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID int64     `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"earned_at"`

	// Associations
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
