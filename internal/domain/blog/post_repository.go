package blog

import (
	"context"

	"github.com/google/uuid"
)

// PostRepository defines the interface for blog post persistence
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *Post) error

	// Save persists changes to an existing post
	Save(ctx context.Context, post *Post) error

	// Delete removes a post
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindBySlug finds a post by its URL slug
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// FindAll returns posts matching the filter with the total count
	FindAll(ctx context.Context, filter PostFilter) ([]*Post, int64, error)
}

// PostFilter contains filter options for querying posts
type PostFilter struct {
	Status   *PostStatus
	AuthorID *uuid.UUID
	Tag      string
	Keyword  string

	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
