package models

import (
	"time"

	"github.com/estate/backend/internal/domain/listing"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property aggregate root.
type PropertyModel struct {
	AggregateModel
	Title       string                 `gorm:"type:varchar(200);not null"`
	Description string                 `gorm:"type:text"`
	Address     valueobject.Address    `gorm:"type:jsonb;not null"`
	Price       decimal.Decimal        `gorm:"type:decimal(18,2);not null;index"`
	Currency    string                 `gorm:"type:varchar(3);not null;default:'ZMW'"`
	Status      listing.PropertyStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Type        listing.PropertyType   `gorm:"type:varchar(20);not null;index"`
	Bedrooms    int                    `gorm:"not null;default:0"`
	Bathrooms   int                    `gorm:"not null;default:0"`
	AreaSqm     float64                `gorm:"not null;default:0"`
	OwnerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	AgentID     *uuid.UUID             `gorm:"type:uuid;index"`
	Media       listing.MediaList      `gorm:"type:jsonb;default:'[]'"`
	ListedAt    *time.Time             `gorm:"index"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property entity.
func (m *PropertyModel) ToDomain() *listing.Property {
	p := &listing.Property{
		Title:       m.Title,
		Description: m.Description,
		Address:     m.Address,
		Price:       moneyFromColumns(m.Price, m.Currency),
		Status:      m.Status,
		Type:        m.Type,
		Bedrooms:    m.Bedrooms,
		Bathrooms:   m.Bathrooms,
		AreaSqm:     m.AreaSqm,
		OwnerID:     m.OwnerID,
		AgentID:     m.AgentID,
		Media:       m.Media,
		ListedAt:    m.ListedAt,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Property entity.
func (m *PropertyModel) FromDomain(p *listing.Property) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Description = p.Description
	m.Address = p.Address
	m.Price = p.Price.Amount()
	m.Currency = string(p.Price.Currency())
	m.Status = p.Status
	m.Type = p.Type
	m.Bedrooms = p.Bedrooms
	m.Bathrooms = p.Bathrooms
	m.AreaSqm = p.AreaSqm
	m.OwnerID = p.OwnerID
	m.AgentID = p.AgentID
	m.Media = p.Media
	m.ListedAt = p.ListedAt
}

// PropertyModelFromDomain creates a new persistence model from a domain Property.
func PropertyModelFromDomain(p *listing.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}
