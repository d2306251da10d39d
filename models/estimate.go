package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EstimateStatusDraft     = "draft"
	EstimateStatusSent      = "sent"
	EstimateStatusViewed    = "viewed"
	EstimateStatusApproved  = "approved"
	EstimateStatusRejected  = "rejected"
	EstimateStatusExpired   = "expired"
	EstimateStatusConverted = "converted"
	EstimateStatusCancelled = "cancelled"
)

// Estimate is a quote that may later be converted into an invoice; creating
// an invoice with estimate_id set flips the estimate to "converted".
type Estimate struct {
	Id        uint    `json:"id" gorm:"primaryKey"`
	CompanyID string  `json:"company_id" gorm:"size:64;not null;index"`
	ContactID uint    `json:"contact_id" gorm:"not null;index"`
	Contact   Contact `json:"-" gorm:"foreignKey:ContactID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	JobID     *uint   `json:"job_id"`

	EstimateNumber string `json:"estimate_number" gorm:"size:100;not null"`

	SubtotalAmount decimal.Decimal `json:"subtotal_amount" gorm:"type:numeric(12,2)"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`

	DateIssued  time.Time  `json:"date_issued" gorm:"not null"`
	DateExpires *time.Time `json:"date_expires"`

	Status string `json:"status" gorm:"size:50;default:draft"`
	Notes  string `json:"notes" gorm:"type:text"`
	Terms  string `json:"terms" gorm:"type:text"`

	Items []EstimateItem `json:"items,omitempty" gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EstimateItem struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	EstimateID  uint   `json:"estimate_id" gorm:"index"`
	Description string `json:"description" gorm:"type:text;not null"`

	Quantity  float64         `json:"quantity" gorm:"default:1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`

	ItemType string `json:"item_type" gorm:"size:50;default:service"`

	TaxRate            float64         `json:"tax_rate"`
	TaxAmount          decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	DiscountPercentage float64         `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
