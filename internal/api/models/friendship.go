package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship stores one edge per unordered user pair. UserLoID/UserHiID are
// the pair normalized so UserLoID < UserHiID; the unique index on the pair is
// what actually defends against duplicate requests racing past the
// existence check. RequesterID records who initiated.
type Friendship struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserLoID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_lo_id"`
	UserHiID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_hi_id"`
	RequesterID string           `gorm:"type:uuid;not null;index" json:"requester_id"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending';not null" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate normalizes the pair ordering so the unique index holds for
// both request directions.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.UserLoID > f.UserHiID {
		f.UserLoID, f.UserHiID = f.UserHiID, f.UserLoID
	}
	return nil
}

// AddresseeID returns the user the request was sent to.
func (f *Friendship) AddresseeID() string {
	if f.RequesterID == f.UserLoID {
		return f.UserHiID
	}
	return f.UserLoID
}

// Involves reports whether the given user is one of the edge's parties.
func (f *Friendship) Involves(userID string) bool {
	return f.UserLoID == userID || f.UserHiID == userID
}

// OtherParty returns the counterpart of the given user on this edge.
func (f *Friendship) OtherParty(userID string) string {
	if f.UserLoID == userID {
		return f.UserHiID
	}
	return f.UserLoID
}
