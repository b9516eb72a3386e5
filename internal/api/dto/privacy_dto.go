package dto

type UpdatePrivacyRequest struct {
	ProfileVisibility   *string `json:"profile_visibility"`
	ShowActivity        *bool   `json:"show_activity"`
	AllowFriendRequests *bool   `json:"allow_friend_requests"`
}

// UpdateProfileRequest carries a display name change; an explicit null
// clears it.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
}
