package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id int64) (*models.Notification, error)
	GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
	// DeleteByRelated removes notifications of the given types referencing
	// relatedID and returns the ids it deleted. Zero matches is not an
	// error; the returned slice is empty, never nil semantics beyond that.
	DeleteByRelated(ctx context.Context, relatedID int64, types []string) ([]int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("read", true).Error
}

func (r *notificationRepository) DeleteByRelated(ctx context.Context, relatedID int64, types []string) ([]int64, error) {
	// Collect ids first so the caller can reconcile cached unread counts
	// without a re-fetch.
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("related_id = ? AND type IN ?", relatedID, types).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("collect related notifications: %w", err)
	}
	if len(ids) == 0 {
		return []int64{}, nil
	}
	if err := r.db.WithContext(ctx).
		Delete(&models.Notification{}, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("delete related notifications: %w", err)
	}
	return ids, nil
}
