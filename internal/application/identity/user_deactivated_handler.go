package identity

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRevoker invalidates all outstanding tokens for a user
type SessionRevoker interface {
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error
}

// UserDeactivatedHandler revokes a user's sessions when an admin
// deactivates the account, so outstanding tokens stop working before
// they expire.
type UserDeactivatedHandler struct {
	revoker SessionRevoker
	logger  *zap.Logger
}

// NewUserDeactivatedHandler creates a new UserDeactivatedHandler
func NewUserDeactivatedHandler(revoker SessionRevoker, logger *zap.Logger) *UserDeactivatedHandler {
	return &UserDeactivatedHandler{
		revoker: revoker,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *UserDeactivatedHandler) EventTypes() []string {
	return []string{identity.EventTypeUserDeactivated}
}

// Handle revokes the deactivated user's sessions
func (h *UserDeactivatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deactivated, ok := event.(*identity.UserDeactivatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	userID := deactivated.AggregateID()

	h.logger.Info("user deactivated, revoking sessions",
		zap.String("user_id", userID.String()))

	if err := h.revoker.RevokeAllSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions for %s: %w", userID, err)
	}

	return nil
}
