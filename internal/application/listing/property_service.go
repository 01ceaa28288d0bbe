package listing

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
	"go.opentelemetry.io/otel/trace"
)

// PropertyService manages real-estate listings through their lifecycle
// from draft to published to sold or rented.
type PropertyService struct {
	propertyRepo listing.PropertyRepository
	purchaseRepo purchase.PurchaseRepository
	eventBus     shared.EventBus
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	propertyRepo listing.PropertyRepository,
	purchaseRepo purchase.PurchaseRepository,
	eventBus shared.EventBus,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		purchaseRepo: purchaseRepo,
		eventBus:     eventBus,
	}
}

// CreatePropertyRequest represents a request to create a draft listing
type CreatePropertyRequest struct {
	Title       string
	Description string
	Street      string
	Area        string
	City        string
	Province    string
	PostalCode  string
	Price       decimal.Decimal
	Type        listing.PropertyType
	Bedrooms    int
	Bathrooms   int
	AreaSqm     float64
}

// UpdatePropertyRequest represents a request to update listing details
type UpdatePropertyRequest struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Bedrooms    int
	Bathrooms   int
	AreaSqm     float64
}

// AddMediaRequest represents a request to attach a media item
type AddMediaRequest struct {
	URL       string
	Kind      listing.MediaKind
	Caption   string
	IsPrimary bool
}

// CreateProperty creates a new draft listing owned by the caller.
// Only agents and admins may create listings.
func (s *PropertyService) CreateProperty(ctx context.Context, subject identity.Subject, req CreatePropertyRequest) (*listing.Property, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "create")
	defer span.End()

	if err := identity.Authorize(subject, identity.ActionCreate, identity.Resource{Kind: identity.KindProperty}); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	address, err := valueobject.NewAddress(req.Street, req.Area, req.City, req.Province,
		valueobject.WithPostalCode(req.PostalCode))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	property, err := listing.NewProperty(req.Title, req.Description, address,
		valueobject.NewMoneyZMW(req.Price), req.Type, subject.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Bedrooms > 0 || req.Bathrooms > 0 || req.AreaSqm > 0 {
		if err := property.UpdateDetails(req.Title, req.Description, property.Price, req.Bedrooms, req.Bathrooms, req.AreaSqm); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPropertyID, property.ID.String())
	telemetry.SetOK(span)

	return property, nil
}

// UpdateProperty updates listing details for the owner or assigned agent
func (s *PropertyService) UpdateProperty(ctx context.Context, subject identity.Subject, id uuid.UUID, req UpdatePropertyRequest) (*listing.Property, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "update")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoney(req.Price, property.Price.Currency())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := property.UpdateDetails(req.Title, req.Description, price, req.Bedrooms, req.Bathrooms, req.AreaSqm); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	return property, nil
}

// PublishProperty makes a draft listing publicly visible
func (s *PropertyService) PublishProperty(ctx context.Context, subject identity.Subject, id uuid.UUID) (*listing.Property, error) {
	return s.transition(ctx, subject, id, "publish", (*listing.Property).Publish)
}

// UnpublishProperty returns a published listing to draft
func (s *PropertyService) UnpublishProperty(ctx context.Context, subject identity.Subject, id uuid.UUID) (*listing.Property, error) {
	return s.transition(ctx, subject, id, "unpublish", (*listing.Property).Unpublish)
}

// MarkRented marks a published listing as rented
func (s *PropertyService) MarkRented(ctx context.Context, subject identity.Subject, id uuid.UUID) (*listing.Property, error) {
	return s.transition(ctx, subject, id, "mark_rented", (*listing.Property).MarkRented)
}

func (s *PropertyService) transition(ctx context.Context, subject identity.Subject, id uuid.UUID, name string, fn func(*listing.Property) error) (*listing.Property, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", name)
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if err := fn(property); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, property)
	telemetry.SetOK(span)
	return property, nil
}

// DeleteProperty removes a listing. Listings referenced by a purchase
// cannot be deleted; the ledger must stay intact.
func (s *PropertyService) DeleteProperty(ctx context.Context, subject identity.Subject, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "delete")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionDelete, id)
	if err != nil {
		return err
	}

	referenced, err := s.purchaseRepo.ExistsByProperty(ctx, property.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if referenced {
		err := shared.NewDomainError("PROPERTY_HAS_PURCHASES", "Property is referenced by a purchase and cannot be deleted")
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.propertyRepo.Delete(ctx, property.ID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetOK(span)
	return nil
}

// AssignAgent assigns an agent to a listing. Only the owner or an
// admin may assign.
func (s *PropertyService) AssignAgent(ctx context.Context, subject identity.Subject, id, agentID uuid.UUID) (*listing.Property, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "assign_agent")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if err := property.AssignAgent(agentID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	return property, nil
}

// AddMedia attaches a media item to a listing
func (s *PropertyService) AddMedia(ctx context.Context, subject identity.Subject, id uuid.UUID, req AddMediaRequest) (*listing.Media, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "add_media")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	media, err := property.AddMedia(req.URL, req.Kind, req.Caption, req.IsPrimary)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	return media, nil
}

// SetPrimaryMedia marks one media item as the listing's primary image
func (s *PropertyService) SetPrimaryMedia(ctx context.Context, subject identity.Subject, id, mediaID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "set_primary_media")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return err
	}

	if err := property.SetPrimaryMedia(mediaID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetOK(span)
	return nil
}

// RemoveMedia detaches a media item from a listing
func (s *PropertyService) RemoveMedia(ctx context.Context, subject identity.Subject, id, mediaID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "remove_media")
	defer span.End()

	property, err := s.authorizeWrite(ctx, span, subject, identity.ActionUpdate, id)
	if err != nil {
		return err
	}

	if err := property.RemoveMedia(mediaID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetOK(span)
	return nil
}

// GetProperty returns a single listing. Drafts are visible only to the
// owner, the assigned agent, and admins.
func (s *PropertyService) GetProperty(ctx context.Context, subject identity.Subject, id uuid.UUID) (*listing.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionView, s.propertyResource(property)); err != nil {
		return nil, err
	}

	return property, nil
}

// ListProperties returns listings matching the filter. Callers who are
// not admins and are not browsing their own listings only see
// published ones.
func (s *PropertyService) ListProperties(ctx context.Context, subject identity.Subject, filter listing.PropertyFilter) ([]*listing.Property, int64, error) {
	if !s.canBrowseUnpublished(subject, filter) {
		published := listing.PropertyStatusPublished
		filter.Status = &published
	}
	return s.propertyRepo.FindAll(ctx, filter)
}

// ListByAgent returns the published listings assigned to an agent
func (s *PropertyService) ListByAgent(ctx context.Context, agentID uuid.UUID, filter listing.PropertyFilter) ([]*listing.Property, int64, error) {
	published := listing.PropertyStatusPublished
	filter.Status = &published
	return s.propertyRepo.FindByAgent(ctx, agentID, filter)
}

func (s *PropertyService) canBrowseUnpublished(subject identity.Subject, filter listing.PropertyFilter) bool {
	if !subject.Authenticated {
		return false
	}
	if subject.Role == identity.RoleAdmin {
		return true
	}
	return filter.OwnerID != nil && *filter.OwnerID == subject.UserID
}

// authorizeWrite loads the property and checks the caller may modify
// it. The load happens first so missing listings report not-found even
// to callers who would be forbidden.
func (s *PropertyService) authorizeWrite(ctx context.Context, span trace.Span, subject identity.Subject, action identity.Action, id uuid.UUID) (*listing.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := identity.Authorize(subject, action, s.propertyResource(property)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return property, nil
}

func (s *PropertyService) propertyResource(p *listing.Property) identity.Resource {
	return identity.Resource{
		Kind:    identity.KindProperty,
		ID:      p.ID,
		OwnerID: p.OwnerID,
		AgentID: p.AgentID,
		Public:  p.IsPublic(),
	}
}

func (s *PropertyService) publishEvents(ctx context.Context, p *listing.Property) {
	if s.eventBus == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventBus.Publish(ctx, events...)
	}
	p.ClearDomainEvents()
}
