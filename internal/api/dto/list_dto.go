package dto

type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameListRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddListItemRequest struct {
	MediaItemID int64 `json:"media_item_id" binding:"required"`
}
