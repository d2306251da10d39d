package controllers

import (
	"errors"
	"fmt"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/excel"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/pdf"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoicePDF renders one invoice as a printable PDF.
func InvoicePDF(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)
	id := c.Params("id")

	var invoice models.Invoice
	if err := database.DB.Where("id = ?", id).
		Scopes(database.ForCompany(companyID)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Invoice not found")
		}
		return dbError(c, err)
	}

	var contact models.Contact
	if err := database.DB.Where("id = ?", invoice.ContactID).First(&contact).Error; err != nil {
		return dbError(c, err)
	}
	var items []models.InvoiceItem
	if err := database.DB.Where("invoice_id = ?", invoice.Id).Order("id").Find(&items).Error; err != nil {
		return dbError(c, err)
	}
	var company models.Company
	if err := database.DB.Where("id = ?", companyID).First(&company).Error; err != nil {
		return dbError(c, err)
	}
	var settings models.InvoiceSettings
	if err := database.DB.Where("company_id = ?", companyID).First(&settings).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dbError(c, err)
		}
		settings = models.DefaultInvoiceSettings(companyID)
	}

	out, err := pdf.NewGenerator().Generate(pdf.InvoiceDocument{
		Company:  company,
		Settings: settings,
		Invoice:  invoice,
		Contact:  contact,
		Items:    items,
	})
	if err != nil {
		return dbError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, invoice.InvoiceNumber))
	return c.Send(out)
}

// ExportInvoices streams the company's invoice register as an .xlsx workbook,
// optionally narrowed by ?from_date= and ?to_date=.
func ExportInvoices(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var from, to *time.Time
	if v := c.Query("from_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return badRequest(c, "Invalid from_date")
		}
		from = &d
	}
	if v := c.Query("to_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return badRequest(c, "Invalid to_date")
		}
		to = &d
	}

	type exportRow struct {
		InvoiceNumber string
		ContactName   string
		DateIssued    time.Time
		DueDate       *time.Time
		Status        string
		TotalAmount   decimal.Decimal
		AmountPaid    decimal.Decimal
	}

	q := database.DB.Table("invoices AS i").
		Select(`i.invoice_number, c.name AS contact_name, i.date_issued, i.due_date,
			i.status, i.total_amount,
			COALESCE((SELECT SUM(p.amount) FROM payment_transactions p WHERE p.invoice_id = i.id), 0) AS amount_paid`).
		Joins("JOIN contacts c ON c.id = i.contact_id").
		Where("i.company_id = ?", companyID)
	if from != nil {
		q = q.Where("i.date_issued >= ?", *from)
	}
	if to != nil {
		q = q.Where("i.date_issued <= ?", *to)
	}

	raw := []exportRow{}
	if err := q.Order("i.date_issued, i.id").Scan(&raw).Error; err != nil {
		return dbError(c, err)
	}

	var company models.Company
	if err := database.DB.Where("id = ?", companyID).First(&company).Error; err != nil {
		return dbError(c, err)
	}

	rows := make([]excel.InvoiceRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, excel.InvoiceRow{
			InvoiceNumber: r.InvoiceNumber,
			ContactName:   r.ContactName,
			DateIssued:    r.DateIssued,
			DueDate:       r.DueDate,
			Status:        r.Status,
			TotalAmount:   r.TotalAmount,
			AmountPaid:    r.AmountPaid,
		})
	}

	out, err := excel.NewGenerator().Generate(company.Name, from, to, rows)
	if err != nil {
		return dbError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoices-%s.xlsx"`, time.Now().Format("2006-01-02")))
	return c.Send(out)
}
