package models

import "time"

type CustomList struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	User  *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []ListItem `gorm:"foreignKey:ListID" json:"items,omitempty"`
}

func (CustomList) TableName() string {
	return "custom_lists"
}

type ListItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID      int64     `gorm:"not null;uniqueIndex:idx_list_media" json:"list_id"`
	MediaItemID int64     `gorm:"not null;uniqueIndex:idx_list_media" json:"media_item_id"`
	AddedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	MediaItem *MediaItem `gorm:"foreignKey:MediaItemID" json:"media_item,omitempty"`
}

func (ListItem) TableName() string {
	return "list_items"
}
