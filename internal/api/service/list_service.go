package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
)

var (
	ErrListNotFound    = errors.New("list not found")
	ErrEmptyListName   = errors.New("list name must not be empty")
	ErrAlreadyInList   = errors.New("title already in list")
	ErrItemNotInList   = errors.New("title not in list")
	ErrNotListOwner    = errors.New("caller does not own this list")
	ErrForeignListItem = errors.New("title does not belong to the caller")
)

type ListService interface {
	Create(ctx context.Context, userID, name string) (*models.CustomList, error)
	List(ctx context.Context, userID string) ([]models.CustomList, error)
	Get(ctx context.Context, userID string, listID int64) (*models.CustomList, error)
	Rename(ctx context.Context, userID string, listID int64, name string) error
	Delete(ctx context.Context, userID string, listID int64) error
	AddItem(ctx context.Context, userID string, listID, mediaItemID int64) error
	RemoveItem(ctx context.Context, userID string, listID, mediaItemID int64) error
}

type listService struct {
	repo      repository.ListRepository
	mediaRepo repository.MediaRepository
}

func NewListService(repo repository.ListRepository, mediaRepo repository.MediaRepository) ListService {
	return &listService{repo: repo, mediaRepo: mediaRepo}
}

func (s *listService) Create(ctx context.Context, userID, name string) (*models.CustomList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyListName
	}
	list := &models.CustomList{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *listService) List(ctx context.Context, userID string) ([]models.CustomList, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *listService) Get(ctx context.Context, userID string, listID int64) (*models.CustomList, error) {
	return s.owned(ctx, userID, listID)
}

func (s *listService) Rename(ctx context.Context, userID string, listID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyListName
	}
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.Rename(ctx, listID, name)
}

func (s *listService) Delete(ctx context.Context, userID string, listID int64) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, listID)
}

func (s *listService) AddItem(ctx context.Context, userID string, listID, mediaItemID int64) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}

	// The media item must be one of the caller's own collection rows.
	item, err := s.mediaRepo.GetByID(ctx, mediaItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForeignListItem
		}
		return err
	}
	if item.UserID != userID {
		return ErrForeignListItem
	}

	if err := s.repo.AddItem(ctx, &models.ListItem{ListID: listID, MediaItemID: mediaItemID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyInList
		}
		return err
	}
	return nil
}

func (s *listService) RemoveItem(ctx context.Context, userID string, listID, mediaItemID int64) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.repo.RemoveItem(ctx, listID, mediaItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotInList
		}
		return err
	}
	return nil
}

func (s *listService) owned(ctx context.Context, userID string, listID int64) (*models.CustomList, error) {
	list, err := s.repo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrNotListOwner
	}
	return list, nil
}
