package models

import (
	"time"

	"github.com/estate/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email           string              `gorm:"type:varchar(320);not null;uniqueIndex"`
	Username        string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName     string              `gorm:"type:varchar(200)"`
	Phone           string              `gorm:"type:varchar(50)"`
	Avatar          string              `gorm:"type:varchar(500)"`
	Bio             string              `gorm:"type:text"`
	PasswordHash    string              `gorm:"type:varchar(100)"`
	Provider        string              `gorm:"type:varchar(50);not null;default:'local'"`
	ProviderSubject string              `gorm:"type:varchar(200);index"`
	Role            identity.Role       `gorm:"type:varchar(20);not null;default:'user';index"`
	Status          identity.UserStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	LastLoginAt     *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Email:           m.Email,
		Username:        m.Username,
		DisplayName:     m.DisplayName,
		Phone:           m.Phone,
		Avatar:          m.Avatar,
		Bio:             m.Bio,
		PasswordHash:    m.PasswordHash,
		Provider:        m.Provider,
		ProviderSubject: m.ProviderSubject,
		Role:            m.Role,
		Status:          m.Status,
		LastLoginAt:     m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Username = u.Username
	m.DisplayName = u.DisplayName
	m.Phone = u.Phone
	m.Avatar = u.Avatar
	m.Bio = u.Bio
	m.PasswordHash = u.PasswordHash
	m.Provider = u.Provider
	m.ProviderSubject = u.ProviderSubject
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
