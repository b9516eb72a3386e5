package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/realtime"
)

func newAchievementFixture(t *testing.T) (*gorm.DB, AchievementService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAchievementService(
		repository.NewAchievementRepository(db),
		repository.NewMediaRepository(db),
		repository.NewFriendshipRepository(db),
		repository.NewNotificationRepository(db),
		realtime.NoopPublisher{},
	)
	return db, svc
}

func earnedCodes(t *testing.T, svc AchievementService, userID string) []string {
	t.Helper()
	earned, err := svc.ListEarned(context.Background(), userID)
	require.NoError(t, err)
	codes := make([]string, 0, len(earned))
	for _, e := range earned {
		require.NotNil(t, e.Achievement)
		codes = append(codes, e.Achievement.Code)
	}
	return codes
}

func TestListCatalog_Seeded(t *testing.T) {
	_, svc := newAchievementFixture(t)

	catalog, err := svc.ListCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 4)
}

func TestCheckCollection_FirstWatch(t *testing.T) {
	db, svc := newAchievementFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	// Nothing watched yet: nothing earned.
	svc.CheckCollection(ctx, alice.ID)
	assert.Empty(t, earnedCodes(t, svc, alice.ID))

	require.NoError(t, db.Create(&models.MediaItem{
		UserID: alice.ID, Kind: models.KindMovie, CatalogID: "603", Title: "The Matrix", Watched: true,
	}).Error)

	svc.CheckCollection(ctx, alice.ID)
	assert.Equal(t, []string{"first_watch"}, earnedCodes(t, svc, alice.ID))

	// Earning is idempotent: a re-check does not duplicate the award or
	// its notification.
	svc.CheckCollection(ctx, alice.ID)
	assert.Equal(t, []string{"first_watch"}, earnedCodes(t, svc, alice.ID))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationAchievement).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckCollection_MovieBuff(t *testing.T) {
	db, svc := newAchievementFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&models.MediaItem{
			UserID: alice.ID, Kind: models.KindMovie,
			CatalogID: fmt.Sprintf("id-%d", i), Title: fmt.Sprintf("Movie %d", i), Watched: true,
		}).Error)
	}

	svc.CheckCollection(ctx, alice.ID)
	assert.Contains(t, earnedCodes(t, svc, alice.ID), "movie_buff")
}

func TestCheckCollection_BingeWatcher(t *testing.T) {
	db, svc := newAchievementFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	episodes := 120
	require.NoError(t, db.Create(&models.MediaItem{
		UserID: alice.ID, Kind: models.KindTV, CatalogID: "1396", Title: "Breaking Bad",
		Watched: true, TotalEpisodes: &episodes,
	}).Error)

	svc.CheckCollection(ctx, alice.ID)
	codes := earnedCodes(t, svc, alice.ID)
	assert.Contains(t, codes, "binge_watcher")
	assert.Contains(t, codes, "first_watch")
}

func TestCheckSocial_SocialButterfly(t *testing.T) {
	db, svc := newAchievementFixture(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		friend := createTestUser(t, db, fmt.Sprintf("friend%d", i))
		require.NoError(t, db.Create(&models.Friendship{
			UserLoID: alice.ID, UserHiID: friend.ID, RequesterID: alice.ID,
			Status: models.FriendshipAccepted,
		}).Error)
	}

	svc.CheckSocial(ctx, alice.ID)
	assert.Equal(t, []string{"social_butterfly"}, earnedCodes(t, svc, alice.ID))
}
