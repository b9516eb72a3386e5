package models

import "time"

// Notification types. Friend notifications carry the friendship id in
// RelatedID so they can be cleaned up when the edge goes away.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_request_accepted"
	NotificationAchievement    = "achievement_earned"
)

type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	RelatedID *int64    `gorm:"index" json:"related_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
