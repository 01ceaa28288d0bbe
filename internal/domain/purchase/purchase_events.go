package purchase

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Purchase
const AggregateTypePurchase = "Purchase"

// Purchase domain event types
const (
	EventTypePurchaseCreated   = "PurchaseCreated"
	EventTypePaymentReceived   = "PaymentReceived"
	EventTypePurchaseCompleted = "PurchaseCompleted"
)

// PurchaseCreatedEvent is published when a buyer initiates a purchase
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID  uuid.UUID `json:"property_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	TotalAmount string    `json:"total_amount"`
	DownPayment string    `json:"down_payment"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID),
		PropertyID:      p.PropertyID,
		BuyerID:         p.BuyerID,
		TotalAmount:     p.TotalAmount.StringFixed(2),
		DownPayment:     p.DownPayment.StringFixed(2),
	}
}

// PaymentReceivedEvent is published when an installment is applied
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID     `json:"payment_id"`
	Amount          string        `json:"amount"`
	Method          PaymentMethod `json:"method"`
	RemainingAmount string        `json:"remaining_amount"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(p *Purchase, payment *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, AggregateTypePurchase, p.ID),
		PaymentID:       payment.ID,
		Amount:          payment.Amount.StringFixed(2),
		Method:          payment.Method,
		RemainingAmount: p.RemainingAmount.StringFixed(2),
	}
}

// PurchaseCompletedEvent is published when the balance reaches zero.
// The listing context subscribes to mark the property sold.
type PurchaseCompletedEvent struct {
	shared.BaseDomainEvent
	PropertyID  uuid.UUID `json:"property_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewPurchaseCompletedEvent creates a new PurchaseCompletedEvent
func NewPurchaseCompletedEvent(p *Purchase) *PurchaseCompletedEvent {
	completedAt := time.Now()
	if p.CompletionDate != nil {
		completedAt = *p.CompletionDate
	}
	return &PurchaseCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCompleted, AggregateTypePurchase, p.ID),
		PropertyID:      p.PropertyID,
		BuyerID:         p.BuyerID,
		CompletedAt:     completedAt,
	}
}
