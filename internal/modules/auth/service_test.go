package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/domain"
	jwtsvc "eventhub/internal/pkg/jwt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && u.ID == 0 {
		u.ID = 7 // simulate DB insert
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) MarkConfirmed(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock Refresh Token Repository
type mockRefreshTokenRepo struct {
	mock.Mock
}

func (m *mockRefreshTokenRepo) Replace(ctx context.Context, t *domain.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRefreshTokenRepo) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock Blacklist Repository
type mockBlacklistRepo struct {
	mock.Mock
}

func (m *mockBlacklistRepo) Add(ctx context.Context, t *domain.BlacklistedToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockBlacklistRepo) Exists(ctx context.Context, tokenHash string) (bool, error) {
	args := m.Called(ctx, tokenHash)
	return args.Bool(0), args.Error(1)
}

// Mock Confirmation Code Repository
type mockCodeRepo struct {
	mock.Mock
}

func (m *mockCodeRepo) GetByUserID(ctx context.Context, userID int64) (*domain.EmailConfirmationCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailConfirmationCode), args.Error(1)
}

func (m *mockCodeRepo) Save(ctx context.Context, c *domain.EmailConfirmationCode) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCodeRepo) IncrementAttempts(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockCodeRepo) MarkUsed(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ExtractExpiry(token string) (time.Time, error) {
	args := m.Called(token)
	return args.Get(0).(time.Time), args.Error(1)
}

type serviceMocks struct {
	users     *mockUserRepo
	refresh   *mockRefreshTokenRepo
	blacklist *mockBlacklistRepo
	codes     *mockCodeRepo
	jwt       *mockJWTService
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		users:     new(mockUserRepo),
		refresh:   new(mockRefreshTokenRepo),
		blacklist: new(mockBlacklistRepo),
		codes:     new(mockCodeRepo),
		jwt:       new(mockJWTService),
	}
	svc := NewService(
		m.users, m.refresh, m.blacklist, m.codes, m.jwt,
		NewDevConsoleMailer(false),
		"test-pepper", 7*24*time.Hour,
		"confirm-pepper", time.Hour, time.Minute,
	)
	return svc, m
}

func TestService_Register_Success(t *testing.T) {
	svc, m := newTestService()

	m.users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	m.users.On("Create", mock.Anything, mock.Anything).Return(nil)
	// Register triggers the confirmation flow
	m.users.On("GetByEmail", mock.Anything, "new@example.com").Return(&domain.User{
		ID:    7,
		Email: "new@example.com",
	}, nil)
	m.codes.On("GetByUserID", mock.Anything, int64(7)).Return(nil, gorm.ErrRecordNotFound)
	m.codes.On("Save", mock.Anything, mock.Anything).Return(nil)

	userID, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "newuser",
		Email:           "New@Example.com",
		Password:        "securepass123",
		PasswordConfirm: "securepass123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	m.users.AssertExpectations(t)
	m.codes.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	svc, m := newTestService()

	m.users.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "someone",
		Email:           "exists@example.com",
		Password:        "password1",
		PasswordConfirm: "password1",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Register_PasswordMismatch(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "someone",
		Email:           "a@example.com",
		Password:        "password1",
		PasswordConfirm: "password2",
	})

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login_Success(t *testing.T) {
	svc, m := newTestService()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existingUser := &domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
	}

	m.users.On("GetByEmail", mock.Anything, "user@example.com").Return(existingUser, nil)
	m.jwt.On("GenerateToken", int64(10), "user@example.com", "user").Return("login-token", nil)

	var stored *domain.RefreshToken
	m.refresh.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.RefreshToken)
	}).Return(nil)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "login-token", result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// The stored row is the user's single refresh slot: hashed at rest,
	// bound to the user, with a live expiry.
	require.NotNil(t, stored)
	assert.Equal(t, int64(10), stored.UserID)
	assert.Len(t, stored.TokenHash, 64)
	assert.NotEqual(t, result.RefreshToken, stored.TokenHash)
	assert.True(t, stored.ExpiresAt.After(time.Now()))

	m.refresh.AssertNumberOfCalls(t, "Replace", 1)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, m := newTestService()

	m.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, m := newTestService()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)
	m.users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrongpassword",
	})

	// Same sentinel as for an unknown email: callers cannot enumerate
	// accounts from the error.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	m.jwt.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Refresh_Success(t *testing.T) {
	svc, m := newTestService()

	raw := "0123456789abcdef"
	hash := hashTokenWithPepper(raw, "test-pepper")

	m.refresh.On("GetByHash", mock.Anything, hash).Return(&domain.RefreshToken{
		UserID:    10,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil)
	m.users.On("GetByID", mock.Anything, int64(10)).Return(&domain.User{
		ID:    10,
		Email: "user@example.com",
		Role:  domain.RoleUser,
	}, nil)
	m.jwt.On("GenerateToken", int64(10), "user@example.com", "user").Return("fresh-access", nil)

	accessToken, err := svc.Refresh(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "fresh-access", accessToken)
	// The refresh token row is untouched: no rotation on refresh.
	m.refresh.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	m.refresh.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything)
}

func TestService_Refresh_Expired(t *testing.T) {
	svc, m := newTestService()

	raw := "expired-token"
	hash := hashTokenWithPepper(raw, "test-pepper")

	m.refresh.On("GetByHash", mock.Anything, hash).Return(&domain.RefreshToken{
		UserID:    10,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(-1 * time.Minute),
	}, nil)

	_, err := svc.Refresh(context.Background(), raw)

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	m.jwt.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Refresh_Unknown(t *testing.T) {
	svc, m := newTestService()

	m.refresh.On("GetByHash", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Refresh(context.Background(), "never-issued")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_Logout_BlacklistsAndRevokes(t *testing.T) {
	svc, m := newTestService()

	exp := time.Now().Add(10 * time.Minute)
	m.jwt.On("ExtractExpiry", "the-access-token").Return(exp, nil)

	var blacklisted *domain.BlacklistedToken
	m.blacklist.On("Add", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		blacklisted = args.Get(1).(*domain.BlacklistedToken)
	}).Return(nil)
	m.refresh.On("DeleteByUser", mock.Anything, int64(10)).Return(nil)

	err := svc.Logout(context.Background(), "the-access-token", 10)

	require.NoError(t, err)
	require.NotNil(t, blacklisted)
	assert.Equal(t, jwtsvc.Sha256Hex("the-access-token"), blacklisted.TokenHash)
	assert.Equal(t, exp, blacklisted.ExpiresAt)
	m.refresh.AssertExpectations(t)
}

func TestService_Logout_MalformedTokenStillRevokesRefresh(t *testing.T) {
	svc, m := newTestService()

	m.jwt.On("ExtractExpiry", "garbage").Return(time.Time{}, jwtsvc.ErrMalformedToken)
	m.refresh.On("DeleteByUser", mock.Anything, int64(10)).Return(nil)

	err := svc.Logout(context.Background(), "garbage", 10)

	// Malformed input during the best-effort blacklist is dropped, not
	// fatal; the refresh tokens are revoked regardless.
	require.NoError(t, err)
	m.blacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	m.refresh.AssertExpectations(t)
}

func TestService_Logout_AlreadyExpiredToken(t *testing.T) {
	svc, m := newTestService()

	m.jwt.On("ExtractExpiry", "stale-token").Return(time.Now().Add(-1*time.Minute), nil)
	m.refresh.On("DeleteByUser", mock.Anything, int64(10)).Return(nil)

	err := svc.Logout(context.Background(), "stale-token", 10)

	require.NoError(t, err)
	m.blacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestService_ConfirmEmail_Success(t *testing.T) {
	svc, m := newTestService()

	m.users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:    10,
		Email: "user@example.com",
	}, nil)
	m.codes.On("GetByUserID", mock.Anything, int64(10)).Return(&domain.EmailConfirmationCode{
		UserID:    10,
		CodeHash:  hashConfirmationCode("123456", "confirm-pepper"),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	m.codes.On("MarkUsed", mock.Anything, int64(10)).Return(nil)
	m.users.On("MarkConfirmed", mock.Anything, int64(10)).Return(nil)

	err := svc.ConfirmEmail(context.Background(), "user@example.com", "123456")

	require.NoError(t, err)
	m.codes.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

func TestService_ConfirmEmail_WrongCode(t *testing.T) {
	svc, m := newTestService()

	m.users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{ID: 10}, nil)
	m.codes.On("GetByUserID", mock.Anything, int64(10)).Return(&domain.EmailConfirmationCode{
		UserID:    10,
		CodeHash:  hashConfirmationCode("123456", "confirm-pepper"),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	m.codes.On("IncrementAttempts", mock.Anything, int64(10)).Return(nil)

	err := svc.ConfirmEmail(context.Background(), "user@example.com", "654321")

	assert.ErrorIs(t, err, ErrInvalidConfirmationCode)
	m.codes.AssertExpectations(t)
	m.users.AssertNotCalled(t, "MarkConfirmed", mock.Anything, mock.Anything)
}

func TestService_ConfirmEmail_BadFormat(t *testing.T) {
	svc, _ := newTestService()

	err := svc.ConfirmEmail(context.Background(), "user@example.com", "12ab56")

	assert.ErrorIs(t, err, ErrInvalidConfirmationCodeFormat)
}

func TestService_RequestEmailConfirmation_Cooldown(t *testing.T) {
	svc, m := newTestService()

	m.users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{ID: 10}, nil)
	m.codes.On("GetByUserID", mock.Anything, int64(10)).Return(&domain.EmailConfirmationCode{
		UserID:     10,
		LastSentAt: time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}, nil)

	_, err := svc.RequestEmailConfirmation(context.Background(), "user@example.com")

	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	m.codes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_RequestEmailConfirmation_UnknownEmailAccepted(t *testing.T) {
	svc, m := newTestService()

	m.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	result, err := svc.RequestEmailConfirmation(context.Background(), "ghost@example.com")

	// Unknown emails get the same "accepted" answer as real ones.
	require.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	m.codes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
