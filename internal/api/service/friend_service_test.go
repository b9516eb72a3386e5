package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/database"
	"cinelog/internal/realtime"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// TranslateError makes sqlite unique violations surface as
// gorm.ErrDuplicatedKey, matching what the repositories expect.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection, or each pooled connection would get its own empty
	// in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type friendFixture struct {
	db        *gorm.DB
	svc       FriendService
	notifRepo repository.NotificationRepository
	privacy   repository.PrivacyRepository
	media     repository.MediaRepository
	friends   repository.FriendshipRepository
}

func newFriendFixture(t *testing.T) *friendFixture {
	t.Helper()
	db := newTestDB(t)
	friendRepo := repository.NewFriendshipRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	svc := NewFriendService(friendRepo, userRepo, notifRepo, privacyRepo, mediaRepo, nil, realtime.NoopPublisher{})
	return &friendFixture{
		db:        db,
		svc:       svc,
		notifRepo: notifRepo,
		privacy:   privacyRepo,
		media:     mediaRepo,
		friends:   friendRepo,
	}
}

func TestSendFriendRequest(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, f.Status)
	assert.Equal(t, alice.ID, f.RequesterID)

	// The target gets an unread notification naming the sender.
	notifs, err := fx.notifRepo.GetUnreadByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationFriendRequest, notifs[0].Type)
	assert.Contains(t, notifs[0].Message, "alice@example.com")
}

func TestSendFriendRequest_DuplicateBothDirections(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	_, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Repeat from the same side.
	_, err = fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// And from the other side: the pair is unordered.
	_, err = fx.svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestSendFriendRequest_Self(t *testing.T) {
	fx := newFriendFixture(t)
	alice := createTestUser(t, fx.db, "alice")

	_, err := fx.svc.SendFriendRequest(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendFriendRequest_UnknownTarget(t *testing.T) {
	fx := newFriendFixture(t)
	alice := createTestUser(t, fx.db, "alice")

	_, err := fx.svc.SendFriendRequest(context.Background(), alice.ID, uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendFriendRequest_TargetDisabledRequests(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	settings := models.DefaultPrivacySettings(bob.ID)
	settings.AllowFriendRequests = false
	require.NoError(t, fx.privacy.Upsert(ctx, settings))

	_, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrRequestsDisabled)
}

func TestAcceptFriendRequest(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID))

	updated, err := fx.friends.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, updated.Status)

	// The requester hears about the acceptance.
	notifs, err := fx.notifRepo.GetUnreadByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationFriendAccepted, notifs[0].Type)
}

func TestAcceptFriendRequest_OnlyTargetCanAccept(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")
	carol := createTestUser(t, fx.db, "carol")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// The requester accepting their own request would forge a friendship.
	assert.ErrorIs(t, fx.svc.AcceptFriendRequest(ctx, alice.ID, f.ID), ErrNotRequestTarget)

	// An outsider is rejected before the pending check even runs.
	assert.ErrorIs(t, fx.svc.AcceptFriendRequest(ctx, carol.ID, f.ID), ErrNotParticipant)

	// Accepting twice: the second call sees a non-pending edge.
	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID))
	assert.ErrorIs(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID), ErrNotPending)
}

func TestRemoveFriend_CleansUpNotifications(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID))

	// One request notification for bob, one acceptance for alice.
	deleted, err := fx.svc.RemoveFriend(ctx, alice.ID, f.ID)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	notifs, err := fx.notifRepo.GetUnreadByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, notifs)

	// The edge is gone; removing again reports not found.
	_, err = fx.svc.RemoveFriend(ctx, alice.ID, f.ID)
	assert.ErrorIs(t, err, ErrFriendshipNotFound)
}

func TestRemoveFriend_NoNotificationsReturnsEmptyList(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Bob clears his inbox before removing: nothing left to delete.
	require.NoError(t, fx.db.Delete(&models.Notification{}, "user_id = ?", bob.ID).Error)

	deleted, err := fx.svc.RemoveFriend(ctx, bob.ID, f.ID)
	require.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Empty(t, deleted)
}

func TestRespondToRequest_Reject(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	deleted, err := fx.svc.RespondToRequest(ctx, bob.ID, f.ID, false)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	_, err = fx.friends.FindByID(ctx, f.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetFriends_UnknownUserFallback(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")

	// Edge pointing at a user that no longer exists, as left behind by an
	// account deletion that raced this listing.
	ghost := uuid.New().String()
	require.NoError(t, fx.friends.Create(ctx, &models.Friendship{
		UserLoID:    alice.ID,
		UserHiID:    ghost,
		RequesterID: ghost,
		Status:      models.FriendshipPending,
	}))

	edges, err := fx.svc.GetFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, ghost, edges[0].FriendID)
	assert.Equal(t, "Unknown user", edges[0].FriendEmail)
	assert.Equal(t, "Unknown user", edges[0].RequesterEmail)
	assert.True(t, edges[0].Incoming)
}

func TestGetAcceptedFriends_FiltersPending(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")
	carol := createTestUser(t, fx.db, "carol")

	_, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := fx.svc.SendFriendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, carol.ID, accepted.ID))

	all, err := fx.svc.GetFriends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	friends, err := fx.svc.GetAcceptedFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, carol.ID, friends[0].FriendID)
	assert.Equal(t, "carol@example.com", friends[0].FriendEmail)
}

func TestSearchUsersByEmail(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")
	hermit := createTestUser(t, fx.db, "hermit")

	settings := models.DefaultPrivacySettings(hermit.ID)
	settings.AllowFriendRequests = false
	require.NoError(t, fx.privacy.Upsert(ctx, settings))

	// Whitespace-only queries short-circuit to an empty result.
	matches, err := fx.svc.SearchUsersByEmail(ctx, alice.ID, "   ")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = fx.svc.SearchUsersByEmail(ctx, alice.ID, "example.com")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, bob.ID, matches[0].ID)
}

func TestGetFriendCollection(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")
	carol := createTestUser(t, fx.db, "carol")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Pending is not friends yet.
	_, err = fx.svc.GetFriendCollection(ctx, alice.ID, bob.ID, models.KindMovie)
	assert.ErrorIs(t, err, ErrNotFriends)

	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID))

	require.NoError(t, fx.media.Create(ctx, &models.MediaItem{
		UserID:    bob.ID,
		Kind:      models.KindMovie,
		CatalogID: "603",
		Title:     "The Matrix",
		Year:      1999,
		Watched:   true,
	}))

	items, err := fx.svc.GetFriendCollection(ctx, alice.ID, bob.ID, models.KindMovie)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The Matrix", items[0].Title)

	// No edge at all with carol.
	_, err = fx.svc.GetFriendCollection(ctx, alice.ID, carol.ID, models.KindMovie)
	assert.ErrorIs(t, err, ErrNotFriends)
}

func TestGetFriendCollection_RespectsPrivacy(t *testing.T) {
	fx := newFriendFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, fx.db, "alice")
	bob := createTestUser(t, fx.db, "bob")

	f, err := fx.svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, fx.svc.AcceptFriendRequest(ctx, bob.ID, f.ID))

	settings := models.DefaultPrivacySettings(bob.ID)
	settings.ShowActivity = false
	require.NoError(t, fx.privacy.Upsert(ctx, settings))

	_, err = fx.svc.GetFriendCollection(ctx, alice.ID, bob.ID, models.KindMovie)
	assert.ErrorIs(t, err, ErrActivityHidden)

	settings.ShowActivity = true
	settings.ProfileVisibility = models.VisibilityPrivate
	require.NoError(t, fx.privacy.Upsert(ctx, settings))

	_, err = fx.svc.GetFriendCollection(ctx, alice.ID, bob.ID, models.KindMovie)
	assert.ErrorIs(t, err, ErrActivityHidden)
}
