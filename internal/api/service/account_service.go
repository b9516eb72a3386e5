package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidVisibility = errors.New("profile_visibility must be public, friends or private")
)

// PrivacyUpdate is a partial settings change; nil fields keep their current
// value.
type PrivacyUpdate struct {
	ProfileVisibility   *models.ProfileVisibility
	ShowActivity        *bool
	AllowFriendRequests *bool
}

type AccountService interface {
	// DeleteAccount irreversibly removes the user and everything they own,
	// including live sessions. Runs in one transaction; it either fully
	// happens or not at all.
	DeleteAccount(ctx context.Context, userID string) error
	// UpdateProfile sets the display name; nil clears it.
	UpdateProfile(ctx context.Context, userID string, displayName *string) (*models.User, error)
	GetPrivacySettings(ctx context.Context, userID string) (*models.PrivacySettings, error)
	UpdatePrivacySettings(ctx context.Context, userID string, update PrivacyUpdate) (*models.PrivacySettings, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
	privacyRepo repository.PrivacyRepository
	userRepo    repository.UserRepository
}

func NewAccountService(accountRepo repository.AccountRepository, privacyRepo repository.PrivacyRepository, userRepo repository.UserRepository) AccountService {
	return &accountService{accountRepo: accountRepo, privacyRepo: privacyRepo, userRepo: userRepo}
}

func (s *accountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.accountRepo.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, displayName *string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	return user, nil
}

func (s *accountService) GetPrivacySettings(ctx context.Context, userID string) (*models.PrivacySettings, error) {
	return s.privacyRepo.GetOrCreate(ctx, userID)
}

func (s *accountService) UpdatePrivacySettings(ctx context.Context, userID string, update PrivacyUpdate) (*models.PrivacySettings, error) {
	if update.ProfileVisibility != nil && !models.ValidVisibility(*update.ProfileVisibility) {
		return nil, ErrInvalidVisibility
	}

	settings, err := s.privacyRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.ProfileVisibility != nil {
		settings.ProfileVisibility = *update.ProfileVisibility
	}
	if update.ShowActivity != nil {
		settings.ShowActivity = *update.ShowActivity
	}
	if update.AllowFriendRequests != nil {
		settings.AllowFriendRequests = *update.AllowFriendRequests
	}

	if err := s.privacyRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
