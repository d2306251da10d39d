package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash          = "cash"
	PaymentMethodCheck         = "check"
	PaymentMethodCreditCard    = "credit_card"
	PaymentMethodDebitCard     = "debit_card"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodOnlinePayment = "online_payment"
	PaymentMethodOther         = "other"
)

func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodBankTransfer,
		PaymentMethodOnlinePayment, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentTransaction is a single recorded payment applied against one
// invoice. Rows are immutable once written; the only mutation is deletion,
// which triggers reconciliation of the owning invoice.
type PaymentTransaction struct {
	Id        uint   `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"company_id" gorm:"size:64;not null;index"`
	InvoiceID uint   `json:"invoice_id" gorm:"not null;index:idx_payments_invoice_date,priority:1"`
	ContactID uint   `json:"contact_id" gorm:"not null;index"`

	TransactionDate time.Time       `json:"transaction_date" gorm:"not null;index:idx_payments_invoice_date,priority:2"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:50;default:other"`

	PaymentReference string `json:"payment_reference"` // check number, transaction ID, etc.
	Notes            string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
