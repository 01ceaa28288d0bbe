package identity

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// UserService covers profile management, the public agent directory,
// and the admin user operations.
type UserService struct {
	userRepo identity.UserRepository
	eventBus shared.EventBus
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, eventBus shared.EventBus) *UserService {
	return &UserService{
		userRepo: userRepo,
		eventBus: eventBus,
	}
}

// UpdateProfileRequest represents a profile update by the user themselves
type UpdateProfileRequest struct {
	DisplayName *string
	Phone       *string
	Avatar      *string
	Bio         *string
}

// UpdateProfile updates the caller's own profile fields. Only fields
// present in the request are touched.
func (s *UserService) UpdateProfile(ctx context.Context, subject identity.Subject, req UpdateProfileRequest) (*identity.User, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "update_profile")
	defer span.End()

	if !subject.Authenticated {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, subject.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	if req.Avatar != nil {
		if err := user.SetAvatar(*req.Avatar); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	if req.Bio != nil {
		if err := user.SetBio(*req.Bio); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	telemetry.SetOK(span)
	return user, nil
}

// GetAgent returns an agent's public profile
func (s *UserService) GetAgent(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAgent() || !user.IsActive() {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// ListAgents returns the active agents for the public directory
func (s *UserService) ListAgents(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	role := identity.RoleAgent
	status := identity.UserStatusActive
	filter.Role = &role
	filter.Status = &status
	return s.userRepo.FindAll(ctx, filter)
}

// ListUsers returns users matching the filter. Admin only.
func (s *UserService) ListUsers(ctx context.Context, subject identity.Subject, filter identity.UserFilter) ([]*identity.User, int64, error) {
	if err := s.requireAdmin(subject); err != nil {
		return nil, 0, err
	}
	return s.userRepo.FindAll(ctx, filter)
}

// GetUser returns a single user. Admin only.
func (s *UserService) GetUser(ctx context.Context, subject identity.Subject, id uuid.UUID) (*identity.User, error) {
	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

// ChangeRole changes a user's role. Admin only; admins cannot change
// their own role so the last admin cannot lock everyone out.
func (s *UserService) ChangeRole(ctx context.Context, subject identity.Subject, id uuid.UUID, role identity.Role) (*identity.User, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "change_role")
	defer span.End()

	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	if subject.UserID == id {
		err := shared.NewDomainError("SELF_ROLE_CHANGE", "Admins cannot change their own role")
		telemetry.RecordError(span, err)
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := user.ChangeRole(role); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.publishEvents(ctx, user)
	telemetry.SetOK(span)
	return user, nil
}

// DeactivateUser disables a user account. Admin only.
func (s *UserService) DeactivateUser(ctx context.Context, subject identity.Subject, id uuid.UUID) (*identity.User, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "deactivate")
	defer span.End()

	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}
	if subject.UserID == id {
		err := shared.NewDomainError("SELF_DEACTIVATE", "Admins cannot deactivate themselves")
		telemetry.RecordError(span, err)
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.publishEvents(ctx, user)
	telemetry.SetOK(span)
	return user, nil
}

// ActivateUser re-enables a deactivated user account. Admin only.
func (s *UserService) ActivateUser(ctx context.Context, subject identity.Subject, id uuid.UUID) (*identity.User, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "activate")
	defer span.End()

	if err := s.requireAdmin(subject); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := user.Activate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	telemetry.SetOK(span)
	return user, nil
}

func (s *UserService) requireAdmin(subject identity.Subject) error {
	if !subject.Authenticated {
		return shared.ErrUnauthorized
	}
	if subject.Role != identity.RoleAdmin {
		return shared.ErrForbidden
	}
	return nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventBus == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventBus.Publish(ctx, events...)
	}
	user.ClearDomainEvents()
}
