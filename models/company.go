package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Company is a tenant: one HVAC contractor business. Every hvac row in the
// database carries its id as company_id. The template fields drive the
// generated marketing site for the contractor.
type Company struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	City        string `json:"city"`
	State       string `json:"state"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	TemplateKey string `json:"template_key" gorm:"default:moderntrust"`

	// Free-form per-tenant overrides (hero text, colors, logo url...).
	TemplateCustomizations datatypes.JSON `json:"template_customizations" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if company.Id == "" {
		company.Id = uuid.NewString()
	}
	return
}
