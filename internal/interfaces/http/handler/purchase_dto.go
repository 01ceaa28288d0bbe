package handler

import (
	"time"

	purchaseapp "github.com/estate/backend/internal/application/purchase"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================
// Purchase Request DTOs
// =====================

// CreatePurchaseRequest represents the request body for initiating a purchase
type CreatePurchaseRequest struct {
	PropertyID    uuid.UUID       `json:"property_id" binding:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	DownPayment   decimal.Decimal `json:"down_payment" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=credit_card bank_transfer cash"`
}

// CreatePaymentRequest represents the request body for an installment payment
type CreatePaymentRequest struct {
	PurchaseID    uuid.UUID       `json:"purchase_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=credit_card bank_transfer cash"`
	Reference     string          `json:"reference" binding:"omitempty,max=100"`
}

// PurchaseListQuery represents the query parameters for the admin purchase list
type PurchaseListQuery struct {
	Status     string     `form:"status" binding:"omitempty,oneof=pending completed"`
	BuyerID    *uuid.UUID `form:"buyer_id"`
	PropertyID *uuid.UUID `form:"property_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =====================
// Purchase Response DTOs
// =====================

// PaymentResponse represents a payment ledger entry
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PurchaseID      uuid.UUID       `json:"purchase_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	AmountFormatted string          `json:"amount_formatted"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	PaymentDate     time.Time       `json:"payment_date"`
	Reference       string          `json:"reference,omitempty"`
}

// PurchaseResponse represents a purchase with its running balance
type PurchaseResponse struct {
	ID                 uuid.UUID       `json:"id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	BuyerID            uuid.UUID       `json:"buyer_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DownPayment        decimal.Decimal `json:"down_payment"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	Currency           string          `json:"currency"`
	TotalFormatted     string          `json:"total_formatted"`
	RemainingFormatted string          `json:"remaining_formatted"`
	Status             string          `json:"status"`
	PurchaseDate       time.Time       `json:"purchase_date"`
	CompletionDate     *time.Time      `json:"completion_date,omitempty"`
}

// PurchaseDetailResponse represents a purchase with its payment ledger
type PurchaseDetailResponse struct {
	Purchase PurchaseResponse  `json:"purchase"`
	Payments []PaymentResponse `json:"payments"`
}

// PaymentDetailResponse represents a payment with its owning purchase
type PaymentDetailResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Purchase PurchaseResponse `json:"purchase"`
}

func toPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:                 p.ID,
		PropertyID:         p.PropertyID,
		BuyerID:            p.BuyerID,
		TotalAmount:        p.TotalAmount.Amount(),
		DownPayment:        p.DownPayment.Amount(),
		RemainingAmount:    p.RemainingAmount.Amount(),
		Currency:           string(p.TotalAmount.Currency()),
		TotalFormatted:     p.TotalAmount.Format(),
		RemainingFormatted: p.RemainingAmount.Format(),
		Status:             string(p.Status),
		PurchaseDate:       p.PurchaseDate,
		CompletionDate:     p.CompletionDate,
	}
}

func toPurchaseResponses(purchases []*purchase.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		out[i] = toPurchaseResponse(p)
	}
	return out
}

func toPaymentResponse(p *purchase.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		PurchaseID:      p.PurchaseID,
		Amount:          p.Amount.Amount(),
		Currency:        string(p.Amount.Currency()),
		AmountFormatted: p.Amount.Format(),
		Method:          string(p.Method),
		Status:          string(p.Status),
		PaymentDate:     p.PaymentDate,
		Reference:       p.Reference,
	}
}

func toPurchaseDetailResponse(detail *purchaseapp.PurchaseDetail) PurchaseDetailResponse {
	payments := make([]PaymentResponse, len(detail.Payments))
	for i, p := range detail.Payments {
		payments[i] = toPaymentResponse(p)
	}
	return PurchaseDetailResponse{
		Purchase: toPurchaseResponse(detail.Purchase),
		Payments: payments,
	}
}
