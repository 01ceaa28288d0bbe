package handler

import (
	identityapp "github.com/estate/backend/internal/application/identity"
	listingapp "github.com/estate/backend/internal/application/listing"
	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/domain/listing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user administration and public agent profiles
type UserHandler struct {
	BaseHandler
	userService     *identityapp.UserService
	propertyService *listingapp.PropertyService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService, propertyService *listingapp.PropertyService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		propertyService: propertyService,
	}
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Update the caller's display name, phone, avatar, or bio
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), getSubject(c), identityapp.UpdateProfileRequest{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(user))
}

// ListAgents godoc
// @Summary      List agents
// @Description  Public directory of active listing agents
// @Tags         agents
// @Produce      json
// @Param        search query string false "Keyword in username or display name"
// @Success      200 {object} dto.Response{data=[]AgentResponse}
// @Router       /agents [get]
func (h *UserHandler) ListAgents(c *gin.Context) {
	var query AgentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.UserFilter{
		Keyword:  query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	agents, total, err := h.userService.ListAgents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toAgentResponses(agents), total, filter.Page, filter.PageSize)
}

// GetAgent godoc
// @Summary      Get an agent profile
// @Description  Public agent profile with the agent's published listings
// @Tags         agents
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Success      200 {object} dto.Response{data=AgentProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /agents/{id} [get]
func (h *UserHandler) GetAgent(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	agent, err := h.userService.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	listings, _, err := h.propertyService.ListByAgent(c.Request.Context(), agentID, listing.PropertyFilter{
		Page:     1,
		PageSize: 50,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AgentProfileResponse{
		Agent:    toAgentResponse(agent),
		Listings: toPropertyResponses(listings),
	})
}

// List godoc
// @Summary      List users
// @Description  Admin listing of all user accounts
// @Tags         users
// @Produce      json
// @Param        search query string false "Keyword in username, email, or display name"
// @Param        role   query string false "Role" Enums(user, agent, admin)
// @Param        status query string false "Status" Enums(active, deactivated)
// @Success      200 {object} dto.Response{data=[]AuthUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.UserFilter{
		Keyword:  query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}
	if query.Role != "" {
		role := identity.Role(query.Role)
		filter.Role = &role
	}
	if query.Status != "" {
		status := identity.UserStatus(query.Status)
		filter.Status = &status
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), getSubject(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toAuthUserResponses(users), total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a user
// @Description  Admin view of a single user account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), getSubject(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(user))
}

// ChangeRole godoc
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string true "User ID" format(uuid)
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), getSubject(c), userID, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(user))
}

// Deactivate godoc
// @Summary      Deactivate a user
// @Description  Deactivate an account and revoke its sessions
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [put]
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.DeactivateUser(c.Request.Context(), getSubject(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(user))
}

// Activate godoc
// @Summary      Reactivate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id}/activate [put]
func (h *UserHandler) Activate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.ActivateUser(c.Request.Context(), getSubject(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(user))
}
