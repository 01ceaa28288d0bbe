package handler

import (
	"time"

	"github.com/estate/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// =====================
// User Request DTOs
// =====================

// UpdateProfileRequest represents the request body for a profile update.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Avatar      *string `json:"avatar" binding:"omitempty,url,max=2000"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
}

// ChangeRoleRequest represents the request body for an admin role change
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user agent admin"`
}

// UserListQuery represents the query parameters for listing users
type UserListQuery struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=user agent admin"`
	Status   string `form:"status" binding:"omitempty,oneof=active deactivated"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AgentListQuery represents the query parameters for the public agent directory
type AgentListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =====================
// User Response DTOs
// =====================

// AgentResponse represents a public agent profile
type AgentResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	MemberSince time.Time `json:"member_since"`
}

// AgentProfileResponse represents an agent profile with its published listings
type AgentProfileResponse struct {
	Agent    AgentResponse      `json:"agent"`
	Listings []PropertyResponse `json:"listings"`
}

func toAgentResponse(user *identity.User) AgentResponse {
	return AgentResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		Avatar:      user.Avatar,
		Bio:         user.Bio,
		MemberSince: user.CreatedAt,
	}
}

func toAgentResponses(users []*identity.User) []AgentResponse {
	out := make([]AgentResponse, len(users))
	for i, u := range users {
		out[i] = toAgentResponse(u)
	}
	return out
}

func toAuthUserResponses(users []*identity.User) []AuthUserResponse {
	out := make([]AuthUserResponse, len(users))
	for i, u := range users {
		out[i] = toAuthUserResponse(u)
	}
	return out
}
