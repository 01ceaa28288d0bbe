package purchase

import (
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// PaymentStatus represents the state of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is a ledger entry against a purchase. Records are immutable
// once created; there is no edit or delete.
type Payment struct {
	shared.BaseEntity
	PurchaseID  uuid.UUID
	Amount      valueobject.Money
	Method      PaymentMethod
	Status      PaymentStatus
	PaymentDate time.Time
	Reference   string
}

// newPayment creates a completed payment record. Only the Purchase
// aggregate creates payments, via NewPurchase and ApplyPayment, so
// amount validation against the balance happens there.
func newPayment(purchaseID uuid.UUID, amount valueobject.Money, method PaymentMethod, reference string) (*Payment, error) {
	if purchaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASE_ID", "Purchase ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	reference = strings.TrimSpace(reference)
	if len(reference) > 200 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 200 characters")
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		PurchaseID:  purchaseID,
		Amount:      amount,
		Method:      method,
		Status:      PaymentStatusCompleted,
		PaymentDate: time.Now(),
		Reference:   reference,
	}, nil
}
