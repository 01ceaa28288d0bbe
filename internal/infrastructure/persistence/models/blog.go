package models

import (
	"time"

	"github.com/estate/backend/internal/domain/blog"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostModel is the persistence model for the Post aggregate root.
type PostModel struct {
	AggregateModel
	Title       string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(250);not null;uniqueIndex"`
	Body        string          `gorm:"type:text;not null"`
	Excerpt     string          `gorm:"type:varchar(500)"`
	AuthorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      blog.PostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Tags        pq.StringArray  `gorm:"type:text[]"`
	PublishedAt *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts the persistence model to a domain Post entity.
func (m *PostModel) ToDomain() *blog.Post {
	p := &blog.Post{
		Title:       m.Title,
		Slug:        m.Slug,
		Body:        m.Body,
		Excerpt:     m.Excerpt,
		AuthorID:    m.AuthorID,
		Status:      m.Status,
		Tags:        []string(m.Tags),
		PublishedAt: m.PublishedAt,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Post entity.
func (m *PostModel) FromDomain(p *blog.Post) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Slug = p.Slug
	m.Body = p.Body
	m.Excerpt = p.Excerpt
	m.AuthorID = p.AuthorID
	m.Status = p.Status
	m.Tags = pq.StringArray(p.Tags)
	m.PublishedAt = p.PublishedAt
}

// PostModelFromDomain creates a new persistence model from a domain Post.
func PostModelFromDomain(p *blog.Post) *PostModel {
	m := &PostModel{}
	m.FromDomain(p)
	return m
}
