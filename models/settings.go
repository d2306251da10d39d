package models

import "time"

// InvoiceSettings holds per-company numbering and document defaults. A row
// is created on first read with the defaults below.
type InvoiceSettings struct {
	Id        uint   `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"company_id" gorm:"size:64;uniqueIndex;not null"`

	NextInvoiceNumber  int `json:"next_invoice_number" gorm:"default:1001"`
	NextEstimateNumber int `json:"next_estimate_number" gorm:"default:1001"`

	DefaultTaxRate            float64 `json:"default_tax_rate"`
	DefaultDueDays            int     `json:"default_due_days" gorm:"default:30"`
	DefaultEstimateExpiryDays int     `json:"default_estimate_expiry_days" gorm:"default:30"`

	InvoiceNotesTemplate  string `json:"invoice_notes_template" gorm:"type:text"`
	EstimateNotesTemplate string `json:"estimate_notes_template" gorm:"type:text"`
	InvoiceTermsTemplate  string `json:"invoice_terms_template" gorm:"type:text"`
	EstimateTermsTemplate string `json:"estimate_terms_template" gorm:"type:text"`
	LogoURL               string `json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultInvoiceSettings returns the row inserted when a company has no
// settings yet.
func DefaultInvoiceSettings(companyID string) InvoiceSettings {
	return InvoiceSettings{
		CompanyID:                 companyID,
		NextInvoiceNumber:         1001,
		NextEstimateNumber:        1001,
		DefaultTaxRate:            0,
		DefaultDueDays:            30,
		DefaultEstimateExpiryDays: 30,
		InvoiceNotesTemplate:      "Thank you for your business!",
		EstimateNotesTemplate:     "This estimate is valid for 30 days.",
		InvoiceTermsTemplate:      "Payment due within 30 days.",
		EstimateTermsTemplate:     "This estimate is not a contract or agreement.",
	}
}
