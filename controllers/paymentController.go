package controllers

import (
	"errors"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors surfaced out of the payment transactions so the handler can
// map them to client-facing 4xx responses instead of a blanket 500.
var (
	errInvoiceNotPayable = errors.New("Invoice not found, does not belong to this company, or is already paid/void")
	errContactNotOwned   = errors.New("Contact not found or does not belong to this company")
	errPaymentNotFound   = errors.New("Payment not found or does not belong to this company")
)

// paymentRow is a payment joined with display fields from its invoice and
// contact, matching what the dashboard payment list renders.
type paymentRow struct {
	Id               uint            `json:"id"`
	CompanyID        string          `json:"company_id"`
	InvoiceID        uint            `json:"invoice_id"`
	ContactID        uint            `json:"contact_id"`
	TransactionDate  time.Time       `json:"transaction_date"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`

	InvoiceNumber string          `json:"invoice_number"`
	InvoiceTotal  decimal.Decimal `json:"invoice_total"`
	InvoiceStatus string          `json:"invoice_status"`
	ContactName   string          `json:"contact_name"`
	ContactEmail  string          `json:"contact_email"`
}

func paymentQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("payment_transactions AS p").
		Select(`p.id, p.company_id, p.invoice_id, p.contact_id, p.transaction_date,
			p.amount, p.payment_method, p.payment_reference, p.notes, p.created_at,
			i.invoice_number, i.total_amount AS invoice_total, i.status AS invoice_status,
			c.name AS contact_name, c.email AS contact_email`).
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Joins("JOIN contacts c ON c.id = p.contact_id").
		Where("p.company_id = ?", companyID)
}

// GetPayments lists payments for the company, joined with invoice and contact
// display fields. Supports ?id= for a single payment and ?invoice_id= /
// ?contact_id= filters.
func GetPayments(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row paymentRow
		err := paymentQuery(database.DB, companyID).Where("p.id = ?", idStr).Scan(&row).Error
		if err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Payment not found")
		}
		return c.JSON(fiber.Map{"success": true, "payment": row})
	}

	q := paymentQuery(database.DB, companyID)
	if v := c.Query("invoice_id"); v != "" {
		q = q.Where("p.invoice_id = ?", v)
	}
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("p.contact_id = ?", v)
	}

	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	rows := []paymentRow{}
	if err := q.Order("p.transaction_date DESC, p.id DESC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "payments": rows})
}

type recordPaymentInput struct {
	InvoiceID        uint    `json:"invoice_id"`
	ContactID        uint    `json:"contact_id"`
	Amount           float64 `json:"amount"`
	PaymentMethod    string  `json:"payment_method"`
	TransactionDate  string  `json:"transaction_date"`
	PaymentReference string  `json:"payment_reference"`
	Notes            string  `json:"notes"`
}

// RecordPayment inserts a payment and reconciles the owning invoice's status
// inside one transaction. The invoice row is locked for the duration so
// concurrent payments against the same invoice serialize and each sees the
// other's amount in the SUM.
func RecordPayment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto recordPaymentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.InvoiceID == 0 || dto.ContactID == 0 || dto.TransactionDate == "" {
		return badRequest(c, "invoice_id, contact_id, amount and transaction_date are required")
	}
	if dto.Amount <= 0 {
		return badRequest(c, "Payment amount must be greater than zero")
	}
	method := dto.PaymentMethod
	if method == "" {
		method = models.PaymentMethodOther
	}
	if !models.IsValidPaymentMethod(method) {
		return badRequest(c, "Invalid payment method")
	}
	txDate, err := parseDate(dto.TransactionDate)
	if err != nil {
		return badRequest(c, "Invalid transaction_date")
	}

	amount := utils.Dec(dto.Amount)

	var created models.PaymentTransaction
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the invoice row; the SUM below must not race another payment.
		var invoice models.Invoice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", dto.InvoiceID).
			Scopes(database.ForCompany(companyID)).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvoiceNotPayable
			}
			return err
		}
		if invoice.Status == models.InvoiceStatusPaid || invoice.Status == models.InvoiceStatusVoid {
			return errInvoiceNotPayable
		}

		var contact models.Contact
		if err := tx.Where("id = ?", dto.ContactID).
			Scopes(database.ForCompany(companyID)).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errContactNotOwned
			}
			return err
		}

		created = models.PaymentTransaction{
			CompanyID:        companyID,
			InvoiceID:        invoice.Id,
			ContactID:        contact.Id,
			TransactionDate:  txDate,
			Amount:           amount,
			PaymentMethod:    method,
			PaymentReference: dto.PaymentReference,
			Notes:            dto.Notes,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		totalPaid, err := sumPayments(tx, invoice.Id)
		if err != nil {
			return err
		}
		return applyPaymentStatus(tx, &invoice, totalPaid)
	})
	if err != nil {
		if errors.Is(err, errInvoiceNotPayable) || errors.Is(err, errContactNotOwned) {
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	var row paymentRow
	if err := paymentQuery(database.DB, companyID).Where("p.id = ?", created.Id).Scan(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded successfully",
		"payment": row,
	})
}

type deletePaymentInput struct {
	Id uint `json:"id"`
}

// DeletePayment removes a payment and re-reconciles the invoice from the
// remaining payments. An invoice that drops to zero paid falls back to "sent"
// if it had been paid or partially paid.
func DeletePayment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deletePaymentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Payment ID is required")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.PaymentTransaction
		if err := tx.Where("id = ?", dto.Id).
			Scopes(database.ForCompany(companyID)).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPaymentNotFound
			}
			return err
		}

		var invoice models.Invoice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", payment.InvoiceID).
			First(&invoice).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Invoice already gone; just drop the orphaned payment.
			return tx.Delete(&payment).Error
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		totalPaid, err := sumPayments(tx, invoice.Id)
		if err != nil {
			return err
		}
		return applyPaymentStatus(tx, &invoice, totalPaid)
	})
	if err != nil {
		if errors.Is(err, errPaymentNotFound) {
			return notFound(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment deleted successfully"})
}

// sumPayments returns the total recorded against an invoice, zero when none
// remain.
func sumPayments(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := tx.Model(&models.PaymentTransaction{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// applyPaymentStatus writes the status and date_paid implied by totalPaid onto
// the invoice.
func applyPaymentStatus(tx *gorm.DB, invoice *models.Invoice, totalPaid decimal.Decimal) error {
	status, paid := models.ResolvePaymentStatus(invoice.Status, totalPaid, invoice.TotalAmount)
	updates := map[string]any{"status": status}
	if paid {
		updates["date_paid"] = time.Now()
	} else {
		updates["date_paid"] = nil
	}
	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.Id).Updates(updates).Error
}
