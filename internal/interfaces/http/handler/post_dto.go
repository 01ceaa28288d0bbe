package handler

import (
	"time"

	"github.com/estate/backend/internal/domain/blog"
	"github.com/google/uuid"
)

// =====================
// Post Request DTOs
// =====================

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required,max=200"`
	Body    string   `json:"body" binding:"required"`
	Excerpt string   `json:"excerpt" binding:"omitempty,max=500"`
	Tags    []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// UpdatePostRequest represents the request body for updating a post
type UpdatePostRequest struct {
	Title   string   `json:"title" binding:"required,max=200"`
	Body    string   `json:"body" binding:"required"`
	Excerpt string   `json:"excerpt" binding:"omitempty,max=500"`
	Tags    []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// PostListQuery represents the query parameters for listing posts
type PostListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft published"`
	Tag      string `form:"tag"`
	Search   string `form:"search"`
	Mine     bool   `form:"mine"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =====================
// Post Response DTOs
// =====================

// PostResponse represents a blog post in responses
type PostResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Excerpt     string     `json:"excerpt,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toPostResponse(p *blog.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Body:        p.Body,
		Excerpt:     p.Excerpt,
		AuthorID:    p.AuthorID,
		Status:      string(p.Status),
		Tags:        tags,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []*blog.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}
