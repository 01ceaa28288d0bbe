package handler

import (
	"context"
	"fmt"

	listingapp "github.com/estate/backend/internal/application/listing"
	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/listing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyHandler handles listing-related HTTP requests
type PropertyHandler struct {
	BaseHandler
	propertyService *listingapp.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *listingapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create godoc
// @Summary      Create a listing
// @Description  Create a new draft property listing owned by the caller
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body CreatePropertyRequest true "Listing details"
// @Success      201 {object} dto.Response{data=PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), getSubject(c), listingapp.CreatePropertyRequest{
		Title:       req.Title,
		Description: req.Description,
		Street:      req.Street,
		Area:        req.Area,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		Price:       req.Price,
		Type:        listing.PropertyType(req.Type),
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqm:     req.AreaSqm,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPropertyResponse(property))
}

// List godoc
// @Summary      List properties
// @Description  Browse listings. Anonymous callers only see published listings.
// @Tags         properties
// @Produce      json
// @Param        status    query string false "Listing status" Enums(draft, published, sold, rented)
// @Param        type      query string false "Property type" Enums(house, apartment, land, commercial)
// @Param        city      query string false "City"
// @Param        price_min query string false "Minimum price"
// @Param        price_max query string false "Maximum price"
// @Param        bedrooms  query int    false "Minimum bedrooms"
// @Param        search    query string false "Keyword in title or description"
// @Param        mine      query bool   false "Only the caller's own listings"
// @Success      200 {object} dto.Response{data=[]PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	var query PropertyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subject := getSubject(c)
	filter, err := h.buildFilter(query, subject.UserID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	properties, total, err := h.propertyService.ListProperties(c.Request.Context(), subject, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPropertyResponses(properties), total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a listing
// @Description  Get a single listing. Drafts are only visible to their owner, agent, or an admin.
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	property, err := h.propertyService.GetProperty(c.Request.Context(), getSubject(c), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPropertyResponse(property))
}

// Update godoc
// @Summary      Update a listing
// @Description  Update listing details. Only the owner, assigned agent, or an admin may update.
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Param        request body UpdatePropertyRequest true "Listing details"
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), getSubject(c), propertyID, listingapp.UpdatePropertyRequest{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqm:     req.AreaSqm,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPropertyResponse(property))
}

// Delete godoc
// @Summary      Delete a listing
// @Description  Delete a listing that has no recorded purchases
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	if err := h.propertyService.DeleteProperty(c.Request.Context(), getSubject(c), propertyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Publish godoc
// @Summary      Publish a listing
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/publish [post]
func (h *PropertyHandler) Publish(c *gin.Context) {
	h.transition(c, h.propertyService.PublishProperty)
}

// Unpublish godoc
// @Summary      Unpublish a listing
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/unpublish [post]
func (h *PropertyHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.propertyService.UnpublishProperty)
}

// MarkRented godoc
// @Summary      Mark a listing as rented
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/mark-rented [post]
func (h *PropertyHandler) MarkRented(c *gin.Context) {
	h.transition(c, h.propertyService.MarkRented)
}

// AssignAgent godoc
// @Summary      Assign a listing agent
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Param        request body AssignAgentRequest true "Agent"
// @Success      200 {object} dto.Response{data=PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/agent [put]
func (h *PropertyHandler) AssignAgent(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	property, err := h.propertyService.AssignAgent(c.Request.Context(), getSubject(c), propertyID, req.AgentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPropertyResponse(property))
}

// AddMedia godoc
// @Summary      Attach a media item
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Param        request body AddMediaRequest true "Media item"
// @Success      201 {object} dto.Response{data=MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/media [post]
func (h *PropertyHandler) AddMedia(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req AddMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	media, err := h.propertyService.AddMedia(c.Request.Context(), getSubject(c), propertyID, listingapp.AddMediaRequest{
		URL:       req.URL,
		Kind:      listing.MediaKind(req.Kind),
		Caption:   req.Caption,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, MediaResponse{
		ID:        media.ID,
		URL:       media.URL,
		Kind:      string(media.Kind),
		Caption:   media.Caption,
		IsPrimary: media.IsPrimary,
		SortOrder: media.SortOrder,
	})
}

// SetPrimaryMedia godoc
// @Summary      Set the primary media item
// @Tags         properties
// @Produce      json
// @Param        id      path string true "Property ID" format(uuid)
// @Param        mediaId path string true "Media ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/media/{mediaId}/primary [put]
func (h *PropertyHandler) SetPrimaryMedia(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}
	mediaID, err := uuid.Parse(c.Param("mediaId"))
	if err != nil {
		h.BadRequest(c, "Invalid media ID format")
		return
	}

	if err := h.propertyService.SetPrimaryMedia(c.Request.Context(), getSubject(c), propertyID, mediaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveMedia godoc
// @Summary      Remove a media item
// @Tags         properties
// @Produce      json
// @Param        id      path string true "Property ID" format(uuid)
// @Param        mediaId path string true "Media ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /properties/{id}/media/{mediaId} [delete]
func (h *PropertyHandler) RemoveMedia(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}
	mediaID, err := uuid.Parse(c.Param("mediaId"))
	if err != nil {
		h.BadRequest(c, "Invalid media ID format")
		return
	}

	if err := h.propertyService.RemoveMedia(c.Request.Context(), getSubject(c), propertyID, mediaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type propertyTransition func(ctx context.Context, subject identity.Subject, id uuid.UUID) (*listing.Property, error)

func (h *PropertyHandler) transition(c *gin.Context, fn propertyTransition) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	property, err := fn(c.Request.Context(), getSubject(c), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPropertyResponse(property))
}

func (h *PropertyHandler) buildFilter(query PropertyListQuery, callerID uuid.UUID) (listing.PropertyFilter, error) {
	filter := listing.PropertyFilter{
		City:     query.City,
		Province: query.Province,
		Bedrooms: query.Bedrooms,
		Keyword:  query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}

	if query.Status != "" {
		status := listing.PropertyStatus(query.Status)
		filter.Status = &status
	}
	if query.Type != "" {
		propertyType := listing.PropertyType(query.Type)
		filter.Type = &propertyType
	}
	if query.PriceMin != nil {
		min, err := decimal.NewFromString(*query.PriceMin)
		if err != nil {
			return filter, fmt.Errorf("invalid price_min: %w", err)
		}
		filter.PriceMin = &min
	}
	if query.PriceMax != nil {
		max, err := decimal.NewFromString(*query.PriceMax)
		if err != nil {
			return filter, fmt.Errorf("invalid price_max: %w", err)
		}
		filter.PriceMax = &max
	}
	if query.Mine && callerID != uuid.Nil {
		filter.OwnerID = &callerID
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	return filter, nil
}
