package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/realtime"
)

// publishRecorder counts how often the invalidation event fires.
type publishRecorder struct {
	events []realtime.Event
}

func (r *publishRecorder) Publish(event realtime.Event) {
	r.events = append(r.events, event)
}

func TestMarkAsRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	repo := repository.NewNotificationRepository(db)
	recorder := &publishRecorder{}
	svc := NewNotificationService(repo, recorder)

	n := &models.Notification{UserID: alice.ID, Type: models.NotificationAchievement, Message: "hi"}
	require.NoError(t, repo.Create(ctx, n))

	// Someone else's notification looks missing, not forbidden.
	assert.ErrorIs(t, svc.MarkAsRead(ctx, bob.ID, n.ID), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, alice.ID, 9999), ErrNotificationNotFound)
	assert.Empty(t, recorder.events)

	require.NoError(t, svc.MarkAsRead(ctx, alice.ID, n.ID))

	unread, err := svc.GetUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, realtime.EventNotificationsChanged, recorder.events[0].Type)
	assert.Equal(t, alice.ID, recorder.events[0].UserID)
}

func TestMarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	repo := repository.NewNotificationRepository(db)
	recorder := &publishRecorder{}
	svc := NewNotificationService(repo, recorder)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID: alice.ID, Type: models.NotificationAchievement,
		}))
	}

	require.NoError(t, svc.MarkAllAsRead(ctx, alice.ID))

	unread, err := svc.GetUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
	assert.Len(t, recorder.events, 1)
}
