package repository

import (
	"context"
	"errors"
	"time"

	"teamtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository manages the per-user active-token list.
type TokenRepository struct {
	db *gorm.DB
}

type TokenRepositoryInterface interface {
	Add(ctx context.Context, userID uuid.UUID, token string) error
	Find(ctx context.Context, userID uuid.UUID, token string) (*model.AuthToken, error)
	Remove(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAll(ctx context.Context, userID uuid.UUID) error
	PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) error
}

var _ TokenRepositoryInterface = (*TokenRepository)(nil)

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Add(ctx context.Context, userID uuid.UUID, token string) error {
	entry := &model.AuthToken{UserID: userID, Token: token}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *TokenRepository) Find(ctx context.Context, userID uuid.UUID, token string) (*model.AuthToken, error) {
	var entry model.AuthToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

// Remove invalidates a single token, leaving the user's other sessions alive.
func (r *TokenRepository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.AuthToken{}).Error
}

// RemoveAll revokes every session a user has.
func (r *TokenRepository) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AuthToken{}).Error
}

func (r *TokenRepository) PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	cutoff := now.Add(-model.TokenRetention)
	return r.db.WithContext(ctx).
		Where("user_id = ? AND created_at < ?", userID, cutoff).
		Delete(&model.AuthToken{}).Error
}
