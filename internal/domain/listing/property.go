package listing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PropertyStatus represents the lifecycle state of a listing
type PropertyStatus string

const (
	PropertyStatusDraft     PropertyStatus = "draft"     // Being prepared, not visible
	PropertyStatusPublished PropertyStatus = "published" // Publicly listed and purchasable
	PropertyStatusSold      PropertyStatus = "sold"      // Purchase completed
	PropertyStatusRented    PropertyStatus = "rented"    // Taken off the market by a lease
)

// IsValid checks if the status is valid
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusDraft, PropertyStatusPublished, PropertyStatusSold, PropertyStatusRented:
		return true
	}
	return false
}

// IsTerminal returns true when no further status transitions are allowed
func (s PropertyStatus) IsTerminal() bool {
	return s == PropertyStatusSold
}

// PropertyType categorizes a listing
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

// IsValid checks if the property type is valid
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeLand, PropertyTypeCommercial:
		return true
	}
	return false
}

// MediaKind distinguishes media items attached to a listing
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Media is a single media reference on a property
type Media struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Kind      MediaKind `json:"kind"`
	Caption   string    `json:"caption,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	AddedAt   time.Time `json:"added_at"`
}

// MediaList is stored as a JSONB column on the property row
type MediaList []Media

// Value implements driver.Valuer
func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		m = MediaList{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *MediaList) Scan(value any) error {
	if value == nil {
		*m = MediaList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MediaList", value)
	}

	return json.Unmarshal(data, m)
}

// Primary returns the primary media item, or nil when none is set.
// At most one item is primary; writes enforce that invariant.
func (m MediaList) Primary() *Media {
	for i := range m {
		if m[i].IsPrimary {
			return &m[i]
		}
	}
	return nil
}

// Property is the aggregate root for a real-estate listing
type Property struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Address     valueobject.Address
	Price       valueobject.Money
	Status      PropertyStatus
	Type        PropertyType
	Bedrooms    int
	Bathrooms   int
	AreaSqm     float64
	OwnerID     uuid.UUID
	AgentID     *uuid.UUID
	Media       MediaList
	ListedAt    *time.Time
}

// NewProperty creates a new draft listing
func NewProperty(title, description string, address valueobject.Address, price valueobject.Money, propertyType PropertyType, ownerID uuid.UUID) (*Property, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", "Unknown property type")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner is required")
	}

	property := &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       strings.TrimSpace(description),
		Address:           address,
		Price:             price,
		Status:            PropertyStatusDraft,
		Type:              propertyType,
		OwnerID:           ownerID,
		Media:             MediaList{},
	}

	return property, nil
}

// AssignAgent assigns the listing agent
func (p *Property) AssignAgent(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}

	p.AgentID = &agentID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateDetails updates the mutable listing fields. Sold listings are
// frozen.
func (p *Property) UpdateDetails(title, description string, price valueobject.Money, bedrooms, bathrooms int, areaSqm float64) error {
	if p.Status.IsTerminal() {
		return shared.ErrInvalidState
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if bedrooms < 0 || bathrooms < 0 || areaSqm < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Rooms and area cannot be negative")
	}

	p.Title = title
	p.Description = strings.TrimSpace(description)
	p.Price = price
	p.Bedrooms = bedrooms
	p.Bathrooms = bathrooms
	p.AreaSqm = areaSqm
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Publish makes a draft listing publicly visible and purchasable
func (p *Property) Publish() error {
	if p.Status != PropertyStatusDraft {
		return shared.ErrInvalidState
	}

	now := time.Now()
	p.Status = PropertyStatusPublished
	p.ListedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPropertyPublishedEvent(p))

	return nil
}

// Unpublish takes a published listing back to draft
func (p *Property) Unpublish() error {
	if p.Status != PropertyStatusPublished {
		return shared.ErrInvalidState
	}

	p.Status = PropertyStatusDraft
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkSold records the listing as sold when a purchase completes
func (p *Property) MarkSold() error {
	if p.Status != PropertyStatusPublished {
		return shared.ErrInvalidState
	}

	p.Status = PropertyStatusSold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPropertySoldEvent(p))

	return nil
}

// MarkRented records the listing as rented
func (p *Property) MarkRented() error {
	if p.Status != PropertyStatusPublished {
		return shared.ErrInvalidState
	}

	p.Status = PropertyStatusRented
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsPurchasable returns true when a purchase may be initiated
func (p *Property) IsPurchasable() bool {
	return p.Status == PropertyStatusPublished
}

// IsPublic returns true when the listing is visible without authentication
func (p *Property) IsPublic() bool {
	return p.Status != PropertyStatusDraft
}

// AddMedia attaches a media item. When the new item is primary, any
// existing primary is demoted so at most one primary item exists.
func (p *Property) AddMedia(url string, kind MediaKind, caption string, isPrimary bool) (*Media, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, shared.NewDomainError("INVALID_MEDIA", "Media URL cannot be empty")
	}
	if len(url) > 1000 {
		return nil, shared.NewDomainError("INVALID_MEDIA", "Media URL cannot exceed 1000 characters")
	}
	if kind != MediaKindImage && kind != MediaKindVideo {
		return nil, shared.NewDomainError("INVALID_MEDIA", "Unknown media kind")
	}

	if isPrimary {
		for i := range p.Media {
			p.Media[i].IsPrimary = false
		}
	} else if len(p.Media) == 0 {
		// First item becomes primary so published listings always
		// have a cover image when they have any media at all.
		isPrimary = true
	}

	media := Media{
		ID:        uuid.New(),
		URL:       url,
		Kind:      kind,
		Caption:   strings.TrimSpace(caption),
		IsPrimary: isPrimary,
		SortOrder: len(p.Media),
		AddedAt:   time.Now(),
	}
	p.Media = append(p.Media, media)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return &media, nil
}

// SetPrimaryMedia promotes the given media item, demoting the current
// primary in the same write
func (p *Property) SetPrimaryMedia(mediaID uuid.UUID) error {
	found := false
	for i := range p.Media {
		if p.Media[i].ID == mediaID {
			found = true
		}
	}
	if !found {
		return shared.ErrNotFound
	}

	for i := range p.Media {
		p.Media[i].IsPrimary = p.Media[i].ID == mediaID
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveMedia detaches a media item. Removing the primary promotes the
// first remaining item so the zero-or-one invariant holds.
func (p *Property) RemoveMedia(mediaID uuid.UUID) error {
	idx := -1
	for i := range p.Media {
		if p.Media[i].ID == mediaID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	wasPrimary := p.Media[idx].IsPrimary
	p.Media = append(p.Media[:idx], p.Media[idx+1:]...)
	if wasPrimary && len(p.Media) > 0 {
		p.Media[0].IsPrimary = true
	}
	for i := range p.Media {
		p.Media[i].SortOrder = i
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// PrimaryMedia returns the primary media item, or nil
func (p *Property) PrimaryMedia() *Media {
	return p.Media.Primary()
}
