package blog

import (
	"regexp"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Post is a blog article written by an agent or admin
type Post struct {
	shared.BaseAggregateRoot
	Title       string
	Slug        string
	Body        string
	Excerpt     string
	AuthorID    uuid.UUID
	Status      PostStatus
	Tags        []string
	PublishedAt *time.Time
}

// NewPost creates a draft post. The slug is derived from the title.
func NewPost(title, body, excerpt string, authorID uuid.UUID, tags []string) (*Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Body cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	if len(excerpt) > 500 {
		return nil, shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 500 characters")
	}

	return &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              Slugify(title),
		Body:              body,
		Excerpt:           strings.TrimSpace(excerpt),
		AuthorID:          authorID,
		Status:            PostStatusDraft,
		Tags:              normalizeTags(tags),
	}, nil
}

// Update revises the post content. The slug follows the title so
// published URLs stay predictable from the current title.
func (p *Post) Update(title, body, excerpt string, tags []string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("INVALID_BODY", "Body cannot be empty")
	}
	if len(excerpt) > 500 {
		return shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 500 characters")
	}

	p.Title = title
	p.Slug = Slugify(title)
	p.Body = body
	p.Excerpt = strings.TrimSpace(excerpt)
	p.Tags = normalizeTags(tags)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Publish makes the post publicly readable
func (p *Post) Publish() error {
	if p.Status == PostStatusPublished {
		return shared.ErrInvalidState
	}

	now := time.Now()
	p.Status = PostStatusPublished
	p.PublishedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Unpublish takes the post back to draft
func (p *Post) Unpublish() error {
	if p.Status != PostStatusPublished {
		return shared.ErrInvalidState
	}

	p.Status = PostStatusDraft
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsPublic returns true when the post is readable without authentication
func (p *Post) IsPublic() bool {
	return p.Status == PostStatusPublished
}

// Slugify turns a title into a URL slug
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 250 {
		slug = slug[:250]
	}
	return slug
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
