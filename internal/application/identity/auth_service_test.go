package identity

import (
	"context"
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByProviderSubject(ctx context.Context, provider, subject string) (*identity.User, error) {
	args := m.Called(ctx, provider, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		RefreshSecret:          "test-refresh-secret-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "estate-test",
		MaxRefreshCount:        5,
	})
}

func newAuthService(userRepo *MockUserRepository) *AuthService {
	return NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist())
}

func newActiveUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("nchimunya@example.org", "nchimunya", password)
	require.NoError(t, err)
	return user
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)

	userRepo.On("ExistsByEmail", mock.Anything, "new@example.org").Return(false, nil)
	userRepo.On("ExistsByUsername", mock.Anything, "newuser").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "new@example.org",
		Username:    "newuser",
		Password:    "s3curePass!",
		DisplayName: "New User",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleUser, result.User.Role)
	assert.Equal(t, "New User", result.User.DisplayName)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)

	userRepo.On("ExistsByEmail", mock.Anything, "taken@example.org").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.org",
		Username: "newuser",
		Password: "s3curePass!",
	})

	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "s3curePass!",
	})

	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)
	assert.NotEmpty(t, result.Tokens.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	userRepo.AssertNotCalled(t, "Update")
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.org").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.org",
		Password: "whatever1",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")
	require.NoError(t, user.Deactivate())
	user.ClearDomainEvents()

	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "s3curePass!",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_PicksUpRoleChange(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	tokens, err := svc.issueTokens(user)
	require.NoError(t, err)

	require.NoError(t, user.ChangeRole(identity.RoleAgent))
	user.ClearDomainEvents()
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.jwtService.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "agent", claims.Role)
}

func TestRefresh_DeactivatedUserRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	tokens, err := svc.issueTokens(user)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	user.ClearDomainEvents()
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc := newAuthService(new(MockUserRepository))

	_, err := svc.Refresh(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	tokens, err := svc.issueTokens(user)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))

	claims, err := svc.jwtService.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	revoked, err := svc.blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeAllSessions_BlocksRefresh(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	tokens, err := svc.issueTokens(user)
	require.NoError(t, err)

	// Invalidation compares issue time, so the token must predate it
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, svc.RevokeAllSessions(context.Background(), user.ID))

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)
	user := newActiveUser(t, "s3curePass!")

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "An0therPass!")

	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Update")
}
