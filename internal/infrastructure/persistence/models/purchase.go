package models

import (
	"time"

	"github.com/estate/backend/internal/domain/purchase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseModel is the persistence model for the Purchase aggregate root.
type PurchaseModel struct {
	AggregateModel
	PropertyID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	BuyerID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	DownPayment     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	RemainingAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null;index"`
	Currency        string                  `gorm:"type:varchar(3);not null;default:'ZMW'"`
	Status          purchase.PurchaseStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PurchaseDate    time.Time               `gorm:"not null;index"`
	CompletionDate  *time.Time
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase entity.
func (m *PurchaseModel) ToDomain() *purchase.Purchase {
	p := &purchase.Purchase{
		PropertyID:      m.PropertyID,
		BuyerID:         m.BuyerID,
		TotalAmount:     moneyFromColumns(m.TotalAmount, m.Currency),
		DownPayment:     moneyFromColumns(m.DownPayment, m.Currency),
		RemainingAmount: moneyFromColumns(m.RemainingAmount, m.Currency),
		Status:          m.Status,
		PurchaseDate:    m.PurchaseDate,
		CompletionDate:  m.CompletionDate,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Purchase entity.
func (m *PurchaseModel) FromDomain(p *purchase.Purchase) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PropertyID = p.PropertyID
	m.BuyerID = p.BuyerID
	m.TotalAmount = p.TotalAmount.Amount()
	m.DownPayment = p.DownPayment.Amount()
	m.RemainingAmount = p.RemainingAmount.Amount()
	m.Currency = string(p.TotalAmount.Currency())
	m.Status = p.Status
	m.PurchaseDate = p.PurchaseDate
	m.CompletionDate = p.CompletionDate
}

// PurchaseModelFromDomain creates a new persistence model from a domain Purchase.
func PurchaseModelFromDomain(p *purchase.Purchase) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(p)
	return m
}

// PaymentModel is the persistence model for a Payment ledger record.
type PaymentModel struct {
	BaseModel
	PurchaseID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Currency    string                 `gorm:"type:varchar(3);not null;default:'ZMW'"`
	Method      purchase.PaymentMethod `gorm:"type:varchar(30);not null"`
	Status      purchase.PaymentStatus `gorm:"type:varchar(20);not null;default:'completed'"`
	PaymentDate time.Time              `gorm:"not null;index"`
	Reference   string                 `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *purchase.Payment {
	return &purchase.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		PurchaseID:  m.PurchaseID,
		Amount:      moneyFromColumns(m.Amount, m.Currency),
		Method:      m.Method,
		Status:      m.Status,
		PaymentDate: m.PaymentDate,
		Reference:   m.Reference,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *purchase.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PurchaseID = p.PurchaseID
	m.Amount = p.Amount.Amount()
	m.Currency = string(p.Amount.Currency())
	m.Method = p.Method
	m.Status = p.Status
	m.PaymentDate = p.PaymentDate
	m.Reference = p.Reference
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *purchase.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
