package blog

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/blog"
	"github.com/estate/backend/internal/domain/identity"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// PostService manages blog posts from draft to publication
type PostService struct {
	postRepo blog.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo blog.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePostRequest represents a request to create a draft post
type CreatePostRequest struct {
	Title   string
	Body    string
	Excerpt string
	Tags    []string
}

// UpdatePostRequest represents a request to update a post
type UpdatePostRequest struct {
	Title   string
	Body    string
	Excerpt string
	Tags    []string
}

// CreatePost creates a draft post authored by the caller. Only agents
// and admins write for the blog.
func (s *PostService) CreatePost(ctx context.Context, subject identity.Subject, req CreatePostRequest) (*blog.Post, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "blog", "create")
	defer span.End()

	if err := identity.Authorize(subject, identity.ActionCreate, identity.Resource{Kind: identity.KindPost}); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	post, err := blog.NewPost(req.Title, req.Body, req.Excerpt, subject.UserID, req.Tags)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPostID, post.ID.String(),
		telemetry.SpanAttrPostSlug, post.Slug,
	)
	telemetry.SetOK(span)

	return post, nil
}

// UpdatePost updates a post's content for its author or an admin
func (s *PostService) UpdatePost(ctx context.Context, subject identity.Subject, id uuid.UUID, req UpdatePostRequest) (*blog.Post, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "blog", "update")
	defer span.End()

	post, err := s.authorizeWrite(ctx, subject, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := post.Update(req.Title, req.Body, req.Excerpt, req.Tags); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	telemetry.SetOK(span)
	return post, nil
}

// PublishPost makes a draft post publicly visible
func (s *PostService) PublishPost(ctx context.Context, subject identity.Subject, id uuid.UUID) (*blog.Post, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "blog", "publish")
	defer span.End()

	post, err := s.authorizeWrite(ctx, subject, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := post.Publish(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	telemetry.SetOK(span)
	return post, nil
}

// UnpublishPost takes a published post back to draft
func (s *PostService) UnpublishPost(ctx context.Context, subject identity.Subject, id uuid.UUID) (*blog.Post, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "blog", "unpublish")
	defer span.End()

	post, err := s.authorizeWrite(ctx, subject, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := post.Unpublish(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	telemetry.SetOK(span)
	return post, nil
}

// DeletePost removes a post for its author or an admin
func (s *PostService) DeletePost(ctx context.Context, subject identity.Subject, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "blog", "delete")
	defer span.End()

	if _, err := s.authorizeWrite(ctx, subject, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	telemetry.SetOK(span)
	return nil
}

// GetPostBySlug returns a single post by its slug. Drafts are visible
// only to the author and admins.
func (s *PostService) GetPostBySlug(ctx context.Context, subject identity.Subject, slug string) (*blog.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionView, s.postResource(post)); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost returns a single post by ID with the same visibility rules
func (s *PostService) GetPost(ctx context.Context, subject identity.Subject, id uuid.UUID) (*blog.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionView, s.postResource(post)); err != nil {
		return nil, err
	}

	return post, nil
}

// ListPosts returns posts matching the filter. Callers who are not
// admins and are not browsing their own posts only see published ones.
func (s *PostService) ListPosts(ctx context.Context, subject identity.Subject, filter blog.PostFilter) ([]*blog.Post, int64, error) {
	if !s.canBrowseDrafts(subject, filter) {
		published := blog.PostStatusPublished
		filter.Status = &published
	}
	return s.postRepo.FindAll(ctx, filter)
}

func (s *PostService) canBrowseDrafts(subject identity.Subject, filter blog.PostFilter) bool {
	if !subject.Authenticated {
		return false
	}
	if subject.Role == identity.RoleAdmin {
		return true
	}
	return filter.AuthorID != nil && *filter.AuthorID == subject.UserID
}

func (s *PostService) authorizeWrite(ctx context.Context, subject identity.Subject, id uuid.UUID) (*blog.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := identity.Authorize(subject, identity.ActionUpdate, s.postResource(post)); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) postResource(p *blog.Post) identity.Resource {
	return identity.Resource{
		Kind:    identity.KindPost,
		ID:      p.ID,
		OwnerID: p.AuthorID,
		Public:  p.IsPublic(),
	}
}
