package dto

type SendFriendRequestRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required,uuid"`
}

type RespondToRequestRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// RemoveFriendResponse reports which notification rows went away with the
// friendship, so the client can adjust a cached unread count locally.
type RemoveFriendResponse struct {
	DeletedNotificationIDs []int64 `json:"deleted_notification_ids"`
}
