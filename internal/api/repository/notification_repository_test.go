package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/api/models"
)

func TestNotificationDeleteByRelated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	friendshipID := int64(42)
	otherID := int64(7)

	request := &models.Notification{
		UserID: bob.ID, Type: models.NotificationFriendRequest, RelatedID: &friendshipID,
	}
	accepted := &models.Notification{
		UserID: alice.ID, Type: models.NotificationFriendAccepted, RelatedID: &friendshipID,
	}
	unrelated := &models.Notification{
		UserID: bob.ID, Type: models.NotificationFriendRequest, RelatedID: &otherID,
	}
	achievement := &models.Notification{
		UserID: bob.ID, Type: models.NotificationAchievement, RelatedID: &friendshipID,
	}
	for _, n := range []*models.Notification{request, accepted, unrelated, achievement} {
		require.NoError(t, repo.Create(ctx, n))
	}

	deleted, err := repo.DeleteByRelated(ctx, friendshipID,
		[]string{models.NotificationFriendRequest, models.NotificationFriendAccepted})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{request.ID, accepted.ID}, deleted)

	// Rows referencing another edge, or of another type, stay put.
	remaining, err := repo.GetUnreadByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestNotificationDeleteByRelated_NoMatches(t *testing.T) {
	db := newTestDB(t)

	deleted, err := NewNotificationRepository(db).DeleteByRelated(context.Background(), 9999,
		[]string{models.NotificationFriendRequest})
	require.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Empty(t, deleted)
}

func TestNotificationMarkAsRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)
	alice := seedUser(t, db, "alice")

	n := &models.Notification{UserID: alice.ID, Type: models.NotificationAchievement, Message: "hi"}
	require.NoError(t, repo.Create(ctx, n))

	unread, err := repo.GetUnreadByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, repo.MarkAsRead(ctx, n.ID))

	unread, err = repo.GetUnreadByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
