package service

import (
	"context"
	"fmt"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/realtime"
)

// AchievementEvaluator is the earning side, invoked after collection and
// friendship writes. Earning is server-side; the client surface is
// read-only.
type AchievementEvaluator interface {
	CheckCollection(ctx context.Context, userID string)
	CheckSocial(ctx context.Context, userID string)
}

type AchievementService interface {
	AchievementEvaluator
	ListCatalog(ctx context.Context) ([]models.Achievement, error)
	ListEarned(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
	mediaRepo       repository.MediaRepository
	friendRepo      repository.FriendshipRepository
	notifRepo       repository.NotificationRepository
	publisher       realtime.Publisher
}

func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	mediaRepo repository.MediaRepository,
	friendRepo repository.FriendshipRepository,
	notifRepo repository.NotificationRepository,
	publisher realtime.Publisher,
) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		mediaRepo:       mediaRepo,
		friendRepo:      friendRepo,
		notifRepo:       notifRepo,
		publisher:       publisher,
	}
}

func (s *achievementService) ListCatalog(ctx context.Context) ([]models.Achievement, error) {
	return s.achievementRepo.ListAll(ctx)
}

func (s *achievementService) ListEarned(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	return s.achievementRepo.ListEarned(ctx, userID)
}

// CheckCollection evaluates the watch-count achievements. Errors are
// swallowed: earning is best-effort and must never fail the write that
// triggered it.
func (s *achievementService) CheckCollection(ctx context.Context, userID string) {
	movies, err := s.mediaRepo.ListWatched(ctx, userID, models.KindMovie)
	if err != nil {
		return
	}
	shows, err := s.mediaRepo.ListWatched(ctx, userID, models.KindTV)
	if err != nil {
		return
	}
	stats := Compute(movies, shows)

	if stats.MoviesWatched+stats.ShowsWatched >= 1 {
		s.award(ctx, userID, "first_watch")
	}
	if stats.MoviesWatched >= 10 {
		s.award(ctx, userID, "movie_buff")
	}
	if stats.TotalEpisodes >= 100 {
		s.award(ctx, userID, "binge_watcher")
	}
}

// CheckSocial evaluates the friend-count achievement.
func (s *achievementService) CheckSocial(ctx context.Context, userID string) {
	count, err := s.friendRepo.CountAccepted(ctx, userID)
	if err != nil {
		return
	}
	if count >= 5 {
		s.award(ctx, userID, "social_butterfly")
	}
}

func (s *achievementService) award(ctx context.Context, userID, code string) {
	a, err := s.achievementRepo.FindByCode(ctx, code)
	if err != nil {
		return
	}
	awarded, err := s.achievementRepo.Award(ctx, userID, a.ID)
	if err != nil || !awarded {
		return
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationAchievement,
		Message: fmt.Sprintf("Achievement unlocked: %s", a.Name),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return
	}
	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: userID})
}
