package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any login failure. The cause
// (unknown user, wrong password, deactivated account) is deliberately
// not distinguished in the response.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles registration, login, and session lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
	Phone       string
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResult bundles the authenticated user with its token pair
type AuthResult struct {
	User   *identity.User
	Tokens *auth.TokenPair
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register")
	defer span.End()

	taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		err := shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
		telemetry.RecordError(span, err)
		return nil, err
	}

	taken, err = s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		err := shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
		telemetry.RecordError(span, err)
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Username, req.Password)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, user.ID.String())
	telemetry.SetOK(span)

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.VerifyPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, user.ID.String(),
		telemetry.SpanAttrUsername, user.Username,
	)
	telemetry.SetOK(span)

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// user record is reloaded so role changes and deactivation take
// effect at refresh time.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh")
	defer span.End()

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if err := s.checkBlacklist(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive() {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.jwtService.RefreshTokenPair(refreshToken, user.Username, string(user.Role))
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.ErrUnauthorized
		}
		telemetry.RecordError(span, err)
		return nil, shared.ErrUnauthorized
	}

	telemetry.SetOK(span)
	return tokens, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer span.End()

	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// An expired or malformed token needs no revocation
		return nil
	}

	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	telemetry.SetOK(span)
	return nil
}

// RevokeAllSessions invalidates every token issued to a user before now
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// Me returns the user behind an authenticated subject
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ChangePassword changes the caller's password and revokes existing sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "change_password")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.RevokeAllSessions(ctx, userID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetOK(span)
	return nil
}

func (s *AuthService) issueTokens(user *identity.User) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

func (s *AuthService) checkBlacklist(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check blacklist: %w", err)
	}
	if revoked {
		return shared.ErrUnauthorized
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return fmt.Errorf("failed to check blacklist: %w", err)
	}
	if invalidated {
		return shared.ErrUnauthorized
	}

	return nil
}
