package listing

import (
	"github.com/estate/backend/internal/domain/shared"
)

// Aggregate type constant for Property
const AggregateTypeProperty = "Property"

// Property domain event types
const (
	EventTypePropertyPublished = "PropertyPublished"
	EventTypePropertySold      = "PropertySold"
)

// PropertyPublishedEvent is published when a listing goes live
type PropertyPublishedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	City  string `json:"city"`
}

// NewPropertyPublishedEvent creates a new PropertyPublishedEvent
func NewPropertyPublishedEvent(p *Property) *PropertyPublishedEvent {
	return &PropertyPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyPublished, AggregateTypeProperty, p.ID),
		Title:           p.Title,
		City:            p.Address.City(),
	}
}

// PropertySoldEvent is published when a listing is marked sold
type PropertySoldEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewPropertySoldEvent creates a new PropertySoldEvent
func NewPropertySoldEvent(p *Property) *PropertySoldEvent {
	return &PropertySoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertySold, AggregateTypeProperty, p.ID),
		Title:           p.Title,
	}
}
