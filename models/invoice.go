package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Only sent/viewed/partially_paid/paid participate in
// payment reconciliation; draft and void reject payments outright.
const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusSent          = "sent"
	InvoiceStatusViewed        = "viewed"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusOverdue       = "overdue"
	InvoiceStatusVoid          = "void"
	InvoiceStatusCancelled     = "cancelled"
)

// Invoice is the current/live state of a billing document. Invariant: Status
// and DatePaid are always consistent with the sum of payment transactions
// referencing this invoice (see ResolvePaymentStatus and the payments
// controller).
type Invoice struct {
	Id         uint    `json:"id" gorm:"primaryKey"`
	CompanyID  string  `json:"company_id" gorm:"size:64;not null;index:idx_invoices_company_issued,priority:1"`
	ContactID  uint    `json:"contact_id" gorm:"not null;index"`
	Contact    Contact `json:"-" gorm:"foreignKey:ContactID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	JobID      *uint   `json:"job_id"`
	Job        *Job    `json:"-" gorm:"foreignKey:JobID;references:Id;constraint:OnDelete:SET NULL"`
	EstimateID *uint   `json:"estimate_id"`

	InvoiceNumber string `json:"invoice_number" gorm:"size:100"`

	SubtotalAmount decimal.Decimal `json:"subtotal_amount" gorm:"type:numeric(12,2)"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`

	DateIssued time.Time  `json:"date_issued" gorm:"not null;index:idx_invoices_company_issued,priority:2"`
	DueDate    *time.Time `json:"due_date"`
	DatePaid   *time.Time `json:"date_paid"`

	Status              string `json:"status" gorm:"size:50;default:draft"`
	Notes               string `json:"notes" gorm:"type:text"`
	Terms               string `json:"terms" gorm:"type:text"`
	PaymentInstructions string `json:"payment_instructions" gorm:"type:text"`

	// Live line items
	Items []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	InvoiceID   uint   `json:"invoice_id" gorm:"index"` // fast join
	Description string `json:"description" gorm:"type:text;not null"`

	Quantity  float64         `json:"quantity" gorm:"default:1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`

	ItemType string `json:"item_type" gorm:"size:50;default:service"` // service, part, material, labor, fee, discount

	TaxRate            float64         `json:"tax_rate"` // rate stays float
	TaxAmount          decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	DiscountPercentage float64         `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolvePaymentStatus derives the invoice status implied by the sum of the
// payments recorded against it. The second return reports whether DatePaid
// must be set (true) or cleared (false).
//
// prior matters only when no payments remain: an invoice that had been paid
// or partially paid falls back to "sent" (never to draft/viewed, which would
// need history the system does not retain) while any other status is kept
// as-is.
func ResolvePaymentStatus(prior string, totalPaid, totalAmount decimal.Decimal) (string, bool) {
	if totalPaid.Sign() <= 0 {
		if prior == InvoiceStatusPaid || prior == InvoiceStatusPartiallyPaid {
			return InvoiceStatusSent, false
		}
		return prior, false
	}
	if totalPaid.GreaterThanOrEqual(totalAmount) {
		return InvoiceStatusPaid, true
	}
	return InvoiceStatusPartiallyPaid, false
}
