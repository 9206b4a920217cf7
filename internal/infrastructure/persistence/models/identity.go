package models

import (
	"github.com/aihaccp/backend/internal/domain/identity"
)

// OrganizationModel is the persistence model for organizations
type OrganizationModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
	Type string `gorm:"type:varchar(50);not null"`
	Slug string `gorm:"type:varchar(220);index"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the model to a domain organization
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Type:       identity.OrganizationType(m.Type),
		Slug:       m.Slug,
	}
}

// OrganizationModelFromDomain creates a model from a domain organization
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{
		Name: o.Name,
		Type: string(o.Type),
		Slug: o.Slug,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// UserModel is the persistence model for users
type UserModel struct {
	OrganizationScopedModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Name         string `gorm:"type:varchar(200);not null"`
	Role         string `gorm:"type:varchar(50);not null"`
	IsActive     bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		OrganizationEntity: m.OrganizationScopedModel.ToDomain(),
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Name:               m.Name,
		Role:               identity.Role(m.Role),
		IsActive:           m.IsActive,
	}
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
	}
	m.FromDomainOrganizationEntity(u.OrganizationEntity)
	return m
}
