package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/estate/backend/internal/domain/listing"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/estate/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseCompletedHandler marks a property sold once its purchase is
// fully paid.
type PurchaseCompletedHandler struct {
	propertyRepo listing.PropertyRepository
	logger       *zap.Logger
}

// NewPurchaseCompletedHandler creates a new PurchaseCompletedHandler
func NewPurchaseCompletedHandler(propertyRepo listing.PropertyRepository, logger *zap.Logger) *PurchaseCompletedHandler {
	return &PurchaseCompletedHandler{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *PurchaseCompletedHandler) EventTypes() []string {
	return []string{purchase.EventTypePurchaseCompleted}
}

// Handle marks the purchased property as sold. Redelivery is safe: a
// property already sold is left alone.
func (h *PurchaseCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*purchase.PurchaseCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	h.logger.Info("purchase completed, marking property sold",
		zap.String("purchase_id", event.AggregateID().String()),
		zap.String("property_id", completed.PropertyID.String()),
		zap.String("buyer_id", completed.BuyerID.String()),
	)

	property, err := h.propertyRepo.FindByID(ctx, completed.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to load property %s: %w", completed.PropertyID, err)
	}

	if property.Status == listing.PropertyStatusSold {
		h.logger.Debug("property already sold, skipping",
			zap.String("property_id", completed.PropertyID.String()))
		return nil
	}

	if err := property.MarkSold(); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			h.logger.Warn("property cannot transition to sold",
				zap.String("property_id", completed.PropertyID.String()),
				zap.String("status", string(property.Status)))
			return nil
		}
		return err
	}

	if err := h.propertyRepo.SaveWithLock(ctx, property); err != nil {
		return fmt.Errorf("failed to save property %s: %w", completed.PropertyID, err)
	}

	property.ClearDomainEvents()

	return nil
}
