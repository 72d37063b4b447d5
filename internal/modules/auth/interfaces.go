package auth

import (
	"context"

	"eventhub/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	MarkConfirmed(ctx context.Context, userID int64) error
}

// RefreshTokenRepositoryInterface — storage for the per-user refresh slot
type RefreshTokenRepositoryInterface interface {
	Replace(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// BlacklistRepositoryInterface — revoked access tokens
type BlacklistRepositoryInterface interface {
	Add(ctx context.Context, t *domain.BlacklistedToken) error
	Exists(ctx context.Context, tokenHash string) (bool, error)
}

// ConfirmationCodeRepositoryInterface — pending email confirmation codes
type ConfirmationCodeRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.EmailConfirmationCode, error)
	Save(ctx context.Context, c *domain.EmailConfirmationCode) error
	IncrementAttempts(ctx context.Context, userID int64) error
	MarkUsed(ctx context.Context, userID int64) error
}
