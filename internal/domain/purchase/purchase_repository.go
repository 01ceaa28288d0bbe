package purchase

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// Create persists a new purchase together with its down payment
	// record in a single transaction
	Create(ctx context.Context, p *Purchase, downPayment *Payment) error

	// SaveWithPayment persists the purchase's updated balance and the
	// new payment record in a single transaction, using optimistic
	// locking on the purchase row. Returns
	// shared.ErrConcurrencyConflict when another writer got there
	// first.
	SaveWithPayment(ctx context.Context, p *Purchase, payment *Payment) error

	// Save persists changes to the purchase with optimistic locking
	Save(ctx context.Context, p *Purchase) error

	// FindByID finds a purchase by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByBuyer returns all purchases made by the given buyer
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Purchase, error)

	// FindAll returns purchases matching the filter with the total count
	FindAll(ctx context.Context, filter PurchaseFilter) ([]*Purchase, int64, error)

	// ExistsByProperty reports whether any purchase references the property
	ExistsByProperty(ctx context.Context, propertyID uuid.UUID) (bool, error)
}

// PaymentRepository defines the interface for payment ledger reads.
// Writes happen through PurchaseRepository so the balance and the
// ledger never diverge.
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByPurchase returns the ledger for a purchase, oldest first
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*Payment, error)
}

// PurchaseFilter contains filter options for querying purchases
type PurchaseFilter struct {
	Status     *PurchaseStatus
	BuyerID    *uuid.UUID
	PropertyID *uuid.UUID

	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
