package models

import "time"

// Contact is a customer of a contractor (homeowner or business).
type Contact struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	CompanyID string    `json:"company_id" gorm:"size:64;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Address   string    `json:"address"`
	City      string    `json:"city" gorm:"size:100"`
	State     string    `json:"state" gorm:"size:50"`
	Zip       string    `json:"zip" gorm:"size:20"`
	Type      string    `json:"type" gorm:"size:50;default:residential"` // residential | commercial
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
