package purchase

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/listing"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseService coordinates the purchase lifecycle: initiating a
// purchase with its down payment and applying installments until the
// balance reaches zero.
type PurchaseService struct {
	purchaseRepo purchase.PurchaseRepository
	paymentRepo  purchase.PaymentRepository
	propertyRepo listing.PropertyRepository
	eventBus     shared.EventBus
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo purchase.PurchaseRepository,
	paymentRepo purchase.PaymentRepository,
	propertyRepo listing.PropertyRepository,
	eventBus shared.EventBus,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		paymentRepo:  paymentRepo,
		propertyRepo: propertyRepo,
		eventBus:     eventBus,
	}
}

// CreatePurchaseRequest represents a request to initiate a purchase
type CreatePurchaseRequest struct {
	PropertyID    uuid.UUID
	TotalAmount   decimal.Decimal
	DownPayment   decimal.Decimal
	PaymentMethod purchase.PaymentMethod
}

// SubmitPaymentRequest represents an installment against a purchase
type SubmitPaymentRequest struct {
	PurchaseID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod purchase.PaymentMethod
	Reference     string
}

// PurchaseDetail is a purchase together with its payment ledger
type PurchaseDetail struct {
	Purchase *purchase.Purchase
	Payments []*purchase.Payment
}

// CreatePurchase initiates a purchase of a published property. The
// down payment is recorded as the first ledger entry in the same
// transaction as the purchase row.
func (s *PurchaseService) CreatePurchase(ctx context.Context, subject identity.Subject, req CreatePurchaseRequest) (*purchase.Purchase, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPropertyID, req.PropertyID.String(),
		telemetry.SpanAttrAmount, req.TotalAmount.String(),
	)

	if err := identity.Authorize(subject, identity.ActionCreate, identity.Resource{Kind: identity.KindPurchase}); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !property.IsPurchasable() {
		err := shared.NewDomainError("PROPERTY_NOT_PURCHASABLE", "Property is not available for purchase")
		telemetry.RecordError(span, err)
		return nil, err
	}

	totalAmount, err := valueobject.NewMoney(req.TotalAmount, property.Price.Currency())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	downPayment, err := valueobject.NewMoney(req.DownPayment, property.Price.Currency())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	p, down, err := purchase.NewPurchase(property.ID, subject.UserID, totalAmount, downPayment, req.PaymentMethod)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.purchaseRepo.Create(ctx, p, down); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	s.publishEvents(ctx, p)
	telemetry.SetOK(span)

	return p, nil
}

// SubmitPayment applies an installment against a pending purchase.
// The balance update and the ledger insert happen in one transaction
// guarded by optimistic locking, so two racing payments cannot both
// draw down the same balance.
func (s *PurchaseService) SubmitPayment(ctx context.Context, subject identity.Subject, req SubmitPaymentRequest) (*purchase.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "submit_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPurchaseID, req.PurchaseID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrPaymentMethod, string(req.PaymentMethod),
	)

	p, err := s.purchaseRepo.FindByID(ctx, req.PurchaseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionPay, s.purchaseResource(p)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, p.TotalAmount.Currency())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	payment, err := p.ApplyPayment(amount, req.PaymentMethod, req.Reference)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.purchaseRepo.SaveWithPayment(ctx, p, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, p)
	telemetry.SetOK(span)

	return payment, nil
}

// GetPurchase returns a purchase with its payment ledger. Existence is
// established before authorization so strangers see the same not-found
// as everyone else only when the purchase is truly absent.
func (s *PurchaseService) GetPurchase(ctx context.Context, subject identity.Subject, id uuid.UUID) (*PurchaseDetail, error) {
	p, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionView, s.purchaseResource(p)); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByPurchase(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	return &PurchaseDetail{Purchase: p, Payments: payments}, nil
}

// GetPayment returns a single ledger entry after checking the
// requester may view the owning purchase.
func (s *PurchaseService) GetPayment(ctx context.Context, subject identity.Subject, id uuid.UUID) (*purchase.Payment, *purchase.Purchase, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.purchaseRepo.FindByID(ctx, payment.PurchaseID)
	if err != nil {
		return nil, nil, err
	}

	if err := identity.Authorize(subject, identity.ActionView, s.purchaseResource(p)); err != nil {
		return nil, nil, err
	}

	return payment, p, nil
}

// ListMyPurchases returns the authenticated buyer's purchases
func (s *PurchaseService) ListMyPurchases(ctx context.Context, subject identity.Subject) ([]*purchase.Purchase, error) {
	if !subject.Authenticated {
		return nil, shared.ErrUnauthorized
	}
	return s.purchaseRepo.FindByBuyer(ctx, subject.UserID)
}

// ListPurchases returns purchases matching the filter. Non-admin
// callers are restricted to their own purchases.
func (s *PurchaseService) ListPurchases(ctx context.Context, subject identity.Subject, filter purchase.PurchaseFilter) ([]*purchase.Purchase, int64, error) {
	if !subject.Authenticated {
		return nil, 0, shared.ErrUnauthorized
	}
	if subject.Role != identity.RoleAdmin {
		buyerID := subject.UserID
		filter.BuyerID = &buyerID
	}
	return s.purchaseRepo.FindAll(ctx, filter)
}

// purchaseResource maps a purchase to its access-control resource.
// The buyer owns the purchase; there is no agent or public access.
func (s *PurchaseService) purchaseResource(p *purchase.Purchase) identity.Resource {
	return identity.Resource{
		Kind:    identity.KindPurchase,
		ID:      p.ID,
		OwnerID: p.BuyerID,
	}
}

// publishEvents dispatches the aggregate's pending events
func (s *PurchaseService) publishEvents(ctx context.Context, p *purchase.Purchase) {
	if s.eventBus == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventBus.Publish(ctx, events...)
	}
	p.ClearDomainEvents()
}
