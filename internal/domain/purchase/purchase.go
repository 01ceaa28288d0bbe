package purchase

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PurchaseStatus represents the lifecycle state of a purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"   // Balance outstanding
	PurchaseStatusCompleted PurchaseStatus = "completed" // Fully paid
)

// IsValid checks if the status is valid
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusCompleted:
		return true
	}
	return false
}

// CanApplyPayment returns true when payments may be applied in this status
func (s PurchaseStatus) CanApplyPayment() bool {
	return s == PurchaseStatusPending
}

// Purchase tracks a buyer paying off a property in installments.
// The remaining amount always equals the total minus the sum of all
// payment records, clamped at zero; the down payment is recorded as
// the first payment so the equation holds from creation.
type Purchase struct {
	shared.BaseAggregateRoot
	PropertyID      uuid.UUID
	BuyerID         uuid.UUID
	TotalAmount     valueobject.Money
	DownPayment     valueobject.Money
	RemainingAmount valueobject.Money
	Status          PurchaseStatus
	PurchaseDate    time.Time
	CompletionDate  *time.Time
}

// NewPurchase creates a purchase with its down payment applied.
// Returns the purchase and the down payment ledger record; both must
// be persisted together.
func NewPurchase(propertyID, buyerID uuid.UUID, totalAmount, downPayment valueobject.Money, method PaymentMethod) (*Purchase, *Payment, error) {
	if propertyID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_BUYER_ID", "Buyer ID cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, nil, shared.NewDomainError("INVALID_TOTAL_AMOUNT", "Total amount must be positive")
	}
	if !downPayment.IsPositive() {
		return nil, nil, shared.NewDomainError("INVALID_DOWN_PAYMENT", "Down payment must be positive")
	}
	exceeds, err := downPayment.GreaterThan(totalAmount)
	if err != nil {
		return nil, nil, shared.NewDomainError("CURRENCY_MISMATCH", "Down payment currency must match total amount")
	}
	if exceeds {
		return nil, nil, shared.NewDomainError("DOWN_PAYMENT_EXCEEDS_TOTAL", "Down payment cannot exceed total amount")
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		BuyerID:           buyerID,
		TotalAmount:       totalAmount,
		DownPayment:       downPayment,
		RemainingAmount:   totalAmount.MustSubtract(downPayment),
		Status:            PurchaseStatusPending,
		PurchaseDate:      time.Now(),
	}

	down, err := newPayment(p.ID, downPayment, method, "Down payment")
	if err != nil {
		return nil, nil, err
	}

	p.AddDomainEvent(NewPurchaseCreatedEvent(p))

	if p.RemainingAmount.IsZero() {
		p.complete()
	}

	return p, down, nil
}

// ApplyPayment validates and applies an installment against the
// balance, returning the new ledger record. The caller persists the
// purchase and the payment in a single transaction.
func (p *Purchase) ApplyPayment(amount valueobject.Money, method PaymentMethod, reference string) (*Payment, error) {
	if !p.Status.CanApplyPayment() {
		return nil, shared.ErrInvalidState
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	exceeds, err := amount.GreaterThan(p.RemainingAmount)
	if err != nil {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency must match purchase currency")
	}
	if exceeds {
		return nil, shared.NewDomainError("PAYMENT_EXCEEDS_REMAINING", "Payment amount cannot exceed the remaining balance")
	}

	payment, err := newPayment(p.ID, amount, method, reference)
	if err != nil {
		return nil, err
	}

	remaining := p.RemainingAmount.MustSubtract(amount)
	if remaining.IsNegative() {
		remaining = valueobject.Zero(remaining.Currency())
	}
	p.RemainingAmount = remaining
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentReceivedEvent(p, payment))

	if p.RemainingAmount.IsZero() {
		p.complete()
	}

	return payment, nil
}

// complete transitions the purchase to completed and stamps the date
func (p *Purchase) complete() {
	now := time.Now()
	p.Status = PurchaseStatusCompleted
	p.CompletionDate = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPurchaseCompletedEvent(p))
}

// IsCompleted returns true when the balance has been fully paid
func (p *Purchase) IsCompleted() bool {
	return p.Status == PurchaseStatusCompleted
}
