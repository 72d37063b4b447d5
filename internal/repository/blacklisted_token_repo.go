package repository

import (
	"context"
	"time"

	"eventhub/internal/domain"

	"gorm.io/gorm"
)

// BlacklistedTokenRepository is the revoked-access-token set.
type BlacklistedTokenRepository struct {
	db *gorm.DB
}

func NewBlacklistedTokenRepository(db *gorm.DB) *BlacklistedTokenRepository {
	return &BlacklistedTokenRepository{db: db}
}

// Add records a token hash. Blacklisting the same token twice is fine: the
// unique index swallows the duplicate.
func (r *BlacklistedTokenRepository) Add(ctx context.Context, t *domain.BlacklistedToken) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *BlacklistedTokenRepository) Exists(ctx context.Context, tokenHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BlacklistedToken{}).
		Where("token_hash = ?", tokenHash).
		Count(&count).Error
	if err != nil {
		// Fail closed: a store error must not let a possibly revoked
		// token through.
		return false, err
	}
	return count > 0, nil
}

func (r *BlacklistedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.BlacklistedToken{})
	return tx.RowsAffected, tx.Error
}
