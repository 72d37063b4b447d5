package repository

import (
	"context"
	"time"

	"eventhub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfirmationCodeRepository struct {
	db *gorm.DB
}

func NewConfirmationCodeRepository(db *gorm.DB) *ConfirmationCodeRepository {
	return &ConfirmationCodeRepository{db: db}
}

func (r *ConfirmationCodeRepository) GetByUserID(ctx context.Context, userID int64) (*domain.EmailConfirmationCode, error) {
	var c domain.EmailConfirmationCode
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upserts the user's pending code: one row per user, overwritten on
// resend with a reset attempt counter.
func (r *ConfirmationCodeRepository) Save(ctx context.Context, c *domain.EmailConfirmationCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"code_hash":    c.CodeHash,
			"attempts":     0,
			"resend_count": gorm.Expr("resend_count + 1"),
			"last_sent_at": c.LastSentAt,
			"expires_at":   c.ExpiresAt,
			"used_at":      nil,
		}),
	}).Create(c).Error
}

func (r *ConfirmationCodeRepository) IncrementAttempts(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&domain.EmailConfirmationCode{}).
		Where("user_id = ?", userID).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *ConfirmationCodeRepository) MarkUsed(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.EmailConfirmationCode{}).
		Where("user_id = ?", userID).
		Update("used_at", now).Error
}

func (r *ConfirmationCodeRepository) DeleteDead(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&domain.EmailConfirmationCode{})
	return tx.RowsAffected, tx.Error
}
