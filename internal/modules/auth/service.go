package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"eventhub/internal/domain"
	jwtsvc "eventhub/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, email, role string) (string, error)
	ExtractExpiry(token string) (time.Time, error)
}

// Service contains all business logic for sessions: login, refresh, logout
// and the token bookkeeping behind them.
type Service struct {
	users         UserRepositoryInterface
	refreshTokens RefreshTokenRepositoryInterface
	blacklist     BlacklistRepositoryInterface
	codes         ConfirmationCodeRepositoryInterface
	jwt           jwtService
	mailer        Mailer

	refreshTokenPepper    string
	refreshTTL            time.Duration
	confirmCodePepper     string
	confirmCodeTTL        time.Duration
	confirmResendCooldown time.Duration
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	blacklist BlacklistRepositoryInterface,
	codes ConfirmationCodeRepositoryInterface,
	jwt jwtService,
	mailer Mailer,
	refreshTokenPepper string,
	refreshTTL time.Duration,
	confirmCodePepper string,
	confirmCodeTTL time.Duration,
	confirmResendCooldown time.Duration,
) *Service {
	return &Service{
		users:                 users,
		refreshTokens:         refreshTokens,
		blacklist:             blacklist,
		codes:                 codes,
		jwt:                   jwt,
		mailer:                mailer,
		refreshTokenPepper:    refreshTokenPepper,
		refreshTTL:            refreshTTL,
		confirmCodePepper:     confirmCodePepper,
		confirmCodeTTL:        confirmCodeTTL,
		confirmResendCooldown: confirmResendCooldown,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	if req.Password != req.PasswordConfirm {
		return 0, ErrPasswordMismatch
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailAlreadyExists
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		IsConfirmed:  false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}

	if _, err := s.RequestEmailConfirmation(ctx, user.Email); err != nil {
		return 0, err
	}

	return user.ID, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshRaw, refreshHash, err := generateOpaqueRefreshToken(s.refreshTokenPepper)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Replace(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshHash,
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshRaw}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is left untouched; it lives until the next login or logout.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (string, error) {
	hash := hashTokenWithPepper(refreshRaw, s.refreshTokenPepper)

	token, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	if token.IsExpired(time.Now()) {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return "", err
	}

	return s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
}

// Logout blacklists the presented access token and drops every refresh token
// of the user. After this the access token is rejected even though its
// signature and expiry are still good.
func (s *Service) Logout(ctx context.Context, accessToken string, userID int64) error {
	if err := s.blacklistAccessToken(ctx, accessToken); err != nil {
		return err
	}
	return s.refreshTokens.DeleteByUser(ctx, userID)
}

// blacklistAccessToken is best-effort on malformed input: a token we cannot
// decode is logged and dropped rather than failing the logout. Store errors
// are still surfaced.
func (s *Service) blacklistAccessToken(ctx context.Context, token string) error {
	expiresAt, err := s.jwt.ExtractExpiry(token)
	if err != nil {
		log.Printf("logout: discarding malformed access token: %v", err)
		return nil
	}
	if !expiresAt.After(time.Now()) {
		log.Printf("logout: access token already expired, nothing to blacklist")
		return nil
	}

	return s.blacklist.Add(ctx, &domain.BlacklistedToken{
		TokenHash: jwtsvc.Sha256Hex(token),
		ExpiresAt: expiresAt,
	})
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateOpaqueRefreshToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	hash = hashTokenWithPepper(raw, pepper)
	return raw, hash, nil
}

func hashTokenWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}
