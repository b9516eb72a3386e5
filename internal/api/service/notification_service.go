package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/realtime"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	GetUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher realtime.Publisher
}

func NewNotificationService(repo repository.NotificationRepository, publisher realtime.Publisher) NotificationService {
	return &notificationService{repo: repo, publisher: publisher}
}

func (s *notificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrNotificationNotFound
	}

	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		return err
	}
	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: userID})
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: userID})
	return nil
}
