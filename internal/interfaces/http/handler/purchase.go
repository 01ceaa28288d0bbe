package handler

import (
	purchaseapp "github.com/estate/backend/internal/application/purchase"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase and payment HTTP requests
type PurchaseHandler struct {
	BaseHandler
	purchaseService *purchaseapp.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *purchaseapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create godoc
// @Summary      Initiate a purchase
// @Description  Start a purchase of a published property. The down payment is recorded as the first ledger entry.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body CreatePurchaseRequest true "Purchase details"
// @Success      201 {object} dto.Response{data=PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.purchaseService.CreatePurchase(c.Request.Context(), getSubject(c), purchaseapp.CreatePurchaseRequest{
		PropertyID:    req.PropertyID,
		TotalAmount:   req.TotalAmount,
		DownPayment:   req.DownPayment,
		PaymentMethod: purchase.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPurchaseResponse(result))
}

// ListMine godoc
// @Summary      List own purchases
// @Description  List the authenticated buyer's purchases
// @Tags         purchases
// @Produce      json
// @Success      200 {object} dto.Response{data=[]PurchaseResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/me [get]
func (h *PurchaseHandler) ListMine(c *gin.Context) {
	purchases, err := h.purchaseService.ListMyPurchases(c.Request.Context(), getSubject(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPurchaseResponses(purchases))
}

// GetByID godoc
// @Summary      Get a purchase
// @Description  Get a purchase with its payment ledger. Visible to the buyer and admins.
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=PurchaseDetailResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	detail, err := h.purchaseService.GetPurchase(c.Request.Context(), getSubject(c), purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPurchaseDetailResponse(detail))
}

// List godoc
// @Summary      List purchases
// @Description  Admin list of purchases. Non-admin callers only see their own.
// @Tags         purchases
// @Produce      json
// @Param        status      query string false "Purchase status" Enums(pending, completed)
// @Param        buyer_id    query string false "Buyer ID" format(uuid)
// @Param        property_id query string false "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]PurchaseResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var query PurchaseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := purchase.PurchaseFilter{
		BuyerID:    query.BuyerID,
		PropertyID: query.PropertyID,
		Page:       query.Page,
		PageSize:   query.PageSize,
		OrderBy:    query.OrderBy,
		OrderDir:   query.OrderDir,
	}
	if query.Status != "" {
		status := purchase.PurchaseStatus(query.Status)
		filter.Status = &status
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	purchases, total, err := h.purchaseService.ListPurchases(c.Request.Context(), getSubject(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPurchaseResponses(purchases), total, filter.Page, filter.PageSize)
}

// CreatePayment godoc
// @Summary      Record a payment
// @Description  Apply an installment payment against a pending purchase
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Payment details"
// @Success      201 {object} dto.Response{data=PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PurchaseHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.purchaseService.SubmitPayment(c.Request.Context(), getSubject(c), purchaseapp.SubmitPaymentRequest{
		PurchaseID:    req.PurchaseID,
		Amount:        req.Amount,
		PaymentMethod: purchase.PaymentMethod(req.PaymentMethod),
		Reference:     req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// GetPayment godoc
// @Summary      Get a payment
// @Description  Get a payment with its owning purchase
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=PaymentDetailResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PurchaseHandler) GetPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, owning, err := h.purchaseService.GetPayment(c.Request.Context(), getSubject(c), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PaymentDetailResponse{
		Payment:  toPaymentResponse(payment),
		Purchase: toPurchaseResponse(owning),
	})
}
