package purchase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/listing"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/estate/backend/internal/infrastructure/printing"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

const invoiceDateLayout = "January 2, 2006"

// invoiceTemplate is the fixed invoice document. Amounts arrive
// preformatted with the currency code and thousands separators.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; font-size: 12px; }
  h1 { font-size: 22px; letter-spacing: 2px; margin-bottom: 2px; }
  .meta { color: #666; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 8px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  .amount { text-align: right; }
  .totals td { border: none; font-weight: bold; }
  .footer { margin-top: 40px; color: #666; font-size: 10px; }
</style>
</head>
<body>
<h1>INVOICE</h1>
<div class="meta">
  <div>Invoice No: {{.InvoiceNumber}}</div>
  <div>Date: {{.PaymentDate}}</div>
</div>
<div>
  <strong>Billed to</strong><br>
  {{.BuyerName}}<br>
  {{.BuyerEmail}}
</div>
<table>
  <tr><th>Description</th><th class="amount">Amount</th></tr>
  <tr>
    <td>{{.Description}} payment for {{.PropertyTitle}}, {{.PropertyAddress}}</td>
    <td class="amount">{{.Amount}}</td>
  </tr>
</table>
<table class="totals">
  <tr><td>Purchase total</td><td class="amount">{{.TotalAmount}}</td></tr>
  <tr><td>Paid to date</td><td class="amount">{{.PaidToDate}}</td></tr>
  <tr><td>Balance remaining</td><td class="amount">{{.RemainingAmount}}</td></tr>
</table>
<div class="footer">Payment method: {{.PaymentMethod}}. Purchase status: {{.PurchaseStatus}}.</div>
</body>
</html>`))

type invoiceData struct {
	InvoiceNumber   string
	PaymentDate     string
	BuyerName       string
	BuyerEmail      string
	Description     string
	PropertyTitle   string
	PropertyAddress string
	Amount          string
	TotalAmount     string
	PaidToDate      string
	RemainingAmount string
	PaymentMethod   string
	PurchaseStatus  string
}

// Invoice is a rendered invoice document ready to be served
type Invoice struct {
	Filename string
	PDFData  []byte
}

// InvoiceService renders payment invoices as PDF documents
type InvoiceService struct {
	paymentRepo  purchase.PaymentRepository
	purchaseRepo purchase.PurchaseRepository
	propertyRepo listing.PropertyRepository
	userRepo     identity.UserRepository
	renderer     printing.PDFRenderer
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	paymentRepo purchase.PaymentRepository,
	purchaseRepo purchase.PurchaseRepository,
	propertyRepo listing.PropertyRepository,
	userRepo identity.UserRepository,
	renderer printing.PDFRenderer,
) *InvoiceService {
	return &InvoiceService{
		paymentRepo:  paymentRepo,
		purchaseRepo: purchaseRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		renderer:     renderer,
	}
}

// GenerateInvoice renders the invoice for a single payment. Only
// admins and the purchase's buyer may generate it, and the payment's
// existence is checked before authorization.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, subject identity.Subject, paymentID uuid.UUID) (*Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate")
	defer span.End()

	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, paymentID.String())

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	p, err := s.purchaseRepo.FindByID(ctx, payment.PurchaseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionInvoice, identity.Resource{
		Kind:    identity.KindPayment,
		ID:      payment.ID,
		OwnerID: p.BuyerID,
	}); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, p.PropertyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	buyer, err := s.userRepo.FindByID(ctx, p.BuyerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	html, err := s.buildHTML(payment, p, property, buyer)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to build invoice document: %w", err)
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:        html,
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DefaultMargins(),
		Title:       invoiceNumber(payment.ID),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	telemetry.SetOK(span)

	return &Invoice{
		Filename: fmt.Sprintf("invoice-%s.pdf", payment.ID),
		PDFData:  result.PDFData,
	}, nil
}

func (s *InvoiceService) buildHTML(payment *purchase.Payment, p *purchase.Purchase, property *listing.Property, buyer *identity.User) (string, error) {
	paidToDate := p.TotalAmount.MustSubtract(p.RemainingAmount)

	data := invoiceData{
		InvoiceNumber:   invoiceNumber(payment.ID),
		PaymentDate:     payment.PaymentDate.Format(invoiceDateLayout),
		BuyerName:       buyerName(buyer),
		BuyerEmail:      buyer.Email,
		Description:     "Purchase",
		PropertyTitle:   property.Title,
		PropertyAddress: property.Address.String(),
		Amount:          payment.Amount.Format(),
		TotalAmount:     p.TotalAmount.Format(),
		PaidToDate:      paidToDate.Format(),
		RemainingAmount: p.RemainingAmount.Format(),
		PaymentMethod:   string(payment.Method),
		PurchaseStatus:  string(p.Status),
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// invoiceNumber derives a stable human-readable number from the
// payment ID so regenerating an invoice always yields the same number.
func invoiceNumber(paymentID uuid.UUID) string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(paymentID.String(), "-", "")[:12])
}

func buyerName(u *identity.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
