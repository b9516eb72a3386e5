package models

import "time"

// ProfileVisibility enum for privacy settings.
type ProfileVisibility string

const (
	VisibilityPublic  ProfileVisibility = "public"
	VisibilityFriends ProfileVisibility = "friends"
	VisibilityPrivate ProfileVisibility = "private"
)

// ValidVisibility reports whether v is one of the allowed values.
func ValidVisibility(v ProfileVisibility) bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// PrivacySettings is one row per user, lazily provisioned with defaults on
// first read.
type PrivacySettings struct {
	UserID              string            `gorm:"primaryKey;type:uuid" json:"user_id"`
	ProfileVisibility   ProfileVisibility `gorm:"type:varchar(10);default:'public';not null" json:"profile_visibility"`
	ShowActivity        bool              `gorm:"default:true;not null" json:"show_activity"`
	AllowFriendRequests bool              `gorm:"default:true;not null" json:"allow_friend_requests"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func (PrivacySettings) TableName() string {
	return "privacy_settings"
}

// DefaultPrivacySettings returns the row provisioned for a brand-new user.
func DefaultPrivacySettings(userID string) *PrivacySettings {
	return &PrivacySettings{
		UserID:              userID,
		ProfileVisibility:   VisibilityPublic,
		ShowActivity:        true,
		AllowFriendRequests: true,
	}
}
