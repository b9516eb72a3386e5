package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"cinelog/internal/api/models"
)

// ErrDuplicateFriendship is returned when an edge already exists for the
// unordered pair, detected through the unique index rather than the
// check-then-insert fast path.
var ErrDuplicateFriendship = errors.New("friendship already exists for this pair")

type FriendshipRepository interface {
	Create(ctx context.Context, f *models.Friendship) error
	FindByID(ctx context.Context, id int64) (*models.Friendship, error)
	// FindBetween looks up the edge for the unordered pair, regardless of
	// which side requested it.
	FindBetween(ctx context.Context, a, b string) (*models.Friendship, error)
	ListByUser(ctx context.Context, userID string) ([]models.Friendship, error)
	ListByUserWithStatus(ctx context.Context, userID string, status models.FriendshipStatus) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error
	Delete(ctx context.Context, id int64) error
	CountAccepted(ctx context.Context, userID string) (int64, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFriendship
		}
		return fmt.Errorf("create friendship: %w", err)
	}
	return nil
}

func (r *friendshipRepository) FindByID(ctx context.Context, id int64) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) FindBetween(ctx context.Context, a, b string) (*models.Friendship, error) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	var f models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_lo_id = ? AND user_hi_id = ?", lo, hi).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) ListByUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_lo_id = ? OR user_hi_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	return edges, nil
}

func (r *friendshipRepository) ListByUserWithStatus(ctx context.Context, userID string, status models.FriendshipStatus) ([]models.Friendship, error) {
	var edges []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("(user_lo_id = ? OR user_hi_id = ?) AND status = ?", userID, userID, status).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	return edges, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update friendship status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *friendshipRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, "id = ?", id).Error
}

func (r *friendshipRepository) CountAccepted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("(user_lo_id = ? OR user_hi_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Count(&count).Error
	return count, err
}

// isUniqueViolation covers the Postgres error path (SQLSTATE 23505) and the
// translated error GORM produces for other drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
