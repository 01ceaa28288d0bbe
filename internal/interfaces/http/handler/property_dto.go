package handler

import (
	"time"

	"github.com/estate/backend/internal/domain/listing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================
// Property Request DTOs
// =====================

// CreatePropertyRequest represents the request body for creating a listing
type CreatePropertyRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"omitempty,max=5000"`
	Street      string          `json:"street" binding:"required,max=200"`
	Area        string          `json:"area" binding:"omitempty,max=100"`
	City        string          `json:"city" binding:"required,max=100"`
	Province    string          `json:"province" binding:"required,max=100"`
	PostalCode  string          `json:"postal_code" binding:"omitempty,max=20"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=house apartment land commercial"`
	Bedrooms    int             `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	Bathrooms   int             `json:"bathrooms" binding:"omitempty,min=0,max=50"`
	AreaSqm     float64         `json:"area_sqm" binding:"omitempty,min=0"`
}

// UpdatePropertyRequest represents the request body for updating a listing
type UpdatePropertyRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Bedrooms    int             `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	Bathrooms   int             `json:"bathrooms" binding:"omitempty,min=0,max=50"`
	AreaSqm     float64         `json:"area_sqm" binding:"omitempty,min=0"`
}

// AssignAgentRequest represents the request body for assigning a listing agent
type AssignAgentRequest struct {
	AgentID uuid.UUID `json:"agent_id" binding:"required"`
}

// AddMediaRequest represents the request body for attaching a media item
type AddMediaRequest struct {
	URL       string `json:"url" binding:"required,url,max=2000"`
	Kind      string `json:"kind" binding:"required,oneof=image video"`
	Caption   string `json:"caption" binding:"omitempty,max=200"`
	IsPrimary bool   `json:"is_primary"`
}

// PropertyListQuery represents the query parameters for listing properties
type PropertyListQuery struct {
	Status   string  `form:"status" binding:"omitempty,oneof=draft published sold rented"`
	Type     string  `form:"type" binding:"omitempty,oneof=house apartment land commercial"`
	City     string  `form:"city"`
	Province string  `form:"province"`
	PriceMin *string `form:"price_min"`
	PriceMax *string `form:"price_max"`
	Bedrooms *int    `form:"bedrooms" binding:"omitempty,min=0"`
	Mine     bool    `form:"mine"`
	Search   string  `form:"search"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string  `form:"order_by"`
	OrderDir string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =====================
// Property Response DTOs
// =====================

// AddressResponse represents a listing address in responses
type AddressResponse struct {
	Street     string `json:"street"`
	Area       string `json:"area,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// MediaResponse represents a media item in responses
type MediaResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	Caption   string    `json:"caption,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// PropertyResponse represents a listing in responses
type PropertyResponse struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Address        AddressResponse `json:"address"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	PriceFormatted string          `json:"price_formatted"`
	Status         string          `json:"status"`
	Type           string          `json:"type"`
	Bedrooms       int             `json:"bedrooms"`
	Bathrooms      int             `json:"bathrooms"`
	AreaSqm        float64         `json:"area_sqm"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	AgentID        *uuid.UUID      `json:"agent_id,omitempty"`
	Media          []MediaResponse `json:"media"`
	ListedAt       *time.Time      `json:"listed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toPropertyResponse(p *listing.Property) PropertyResponse {
	media := make([]MediaResponse, len(p.Media))
	for i, m := range p.Media {
		media[i] = MediaResponse{
			ID:        m.ID,
			URL:       m.URL,
			Kind:      string(m.Kind),
			Caption:   m.Caption,
			IsPrimary: m.IsPrimary,
			SortOrder: m.SortOrder,
		}
	}

	return PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address: AddressResponse{
			Street:     p.Address.Street(),
			Area:       p.Address.Area(),
			City:       p.Address.City(),
			Province:   p.Address.Province(),
			PostalCode: p.Address.PostalCode(),
			Country:    p.Address.Country(),
		},
		Price:          p.Price.Amount(),
		Currency:       string(p.Price.Currency()),
		PriceFormatted: p.Price.Format(),
		Status:         string(p.Status),
		Type:           string(p.Type),
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		AreaSqm:        p.AreaSqm,
		OwnerID:        p.OwnerID,
		AgentID:        p.AgentID,
		Media:          media,
		ListedAt:       p.ListedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPropertyResponses(properties []*listing.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = toPropertyResponse(p)
	}
	return out
}
