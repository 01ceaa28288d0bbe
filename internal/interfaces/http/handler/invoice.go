package handler

import (
	"fmt"
	"net/http"

	purchaseapp "github.com/estate/backend/internal/application/purchase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler serves rendered payment invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService *purchaseapp.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *purchaseapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Generate godoc
// @Summary      Generate a payment invoice
// @Description  Render the invoice PDF for a payment and stream it as a download
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {file} binary
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/generate/{id} [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), getSubject(c), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.Filename))
	c.Data(http.StatusOK, "application/pdf", invoice.PDFData)
}
