package controllers

import (
	"errors"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	errInvoiceNotFound  = errors.New("Invoice not found or does not belong to this company")
	errEstimateNotOwned = errors.New("Estimate not found or does not belong to this company")
)

type invoiceRow struct {
	models.Invoice
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	Payments []models.PaymentTransaction `json:"payments,omitempty" gorm:"-"`
}

func invoiceQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("invoices AS i").
		Select("i.*, c.name AS contact_name, c.email AS contact_email, c.phone AS contact_phone").
		Joins("JOIN contacts c ON c.id = i.contact_id").
		Where("i.company_id = ?", companyID)
}

// GetInvoices lists invoices joined with contact display fields. ?id= fetches
// one; contact_id/job_id/status/from_date/to_date narrow the list;
// include_items=true and include_payments=true attach child rows.
func GetInvoices(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)
	includeItems := c.Query("include_items") == "true"
	includePayments := c.Query("include_payments") == "true"

	if idStr := c.Query("id"); idStr != "" {
		var row invoiceRow
		if err := invoiceQuery(database.DB, companyID).Where("i.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Invoice not found")
		}
		if includeItems {
			if err := database.DB.Where("invoice_id = ?", row.Id).Order("id").Find(&row.Items).Error; err != nil {
				return dbError(c, err)
			}
		}
		if includePayments {
			if err := database.DB.Where("invoice_id = ?", row.Id).
				Order("transaction_date DESC").Find(&row.Payments).Error; err != nil {
				return dbError(c, err)
			}
		}
		return c.JSON(fiber.Map{"success": true, "invoice": row})
	}

	q := invoiceQuery(database.DB, companyID)
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("i.contact_id = ?", v)
	}
	if v := c.Query("job_id"); v != "" {
		q = q.Where("i.job_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("i.status = ?", v)
	}
	if v := c.Query("from_date"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			return badRequest(c, "Invalid from_date")
		}
		q = q.Where("i.date_issued >= ?", from)
	}
	if v := c.Query("to_date"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			return badRequest(c, "Invalid to_date")
		}
		q = q.Where("i.date_issued <= ?", to)
	}

	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	rows := []invoiceRow{}
	if err := q.Order("i.date_issued DESC, i.id DESC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}

	if includeItems && len(rows) > 0 {
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.Id)
		}
		var items []models.InvoiceItem
		if err := database.DB.Where("invoice_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
			return dbError(c, err)
		}
		byInvoice := make(map[uint][]models.InvoiceItem, len(rows))
		for _, it := range items {
			byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
		}
		for i := range rows {
			rows[i].Items = byInvoice[rows[i].Id]
		}
	}
	if includePayments && len(rows) > 0 {
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.Id)
		}
		var payments []models.PaymentTransaction
		if err := database.DB.Where("invoice_id IN ?", ids).
			Order("transaction_date DESC").Find(&payments).Error; err != nil {
			return dbError(c, err)
		}
		byInvoice := make(map[uint][]models.PaymentTransaction, len(rows))
		for _, p := range payments {
			byInvoice[p.InvoiceID] = append(byInvoice[p.InvoiceID], p)
		}
		for i := range rows {
			rows[i].Payments = byInvoice[rows[i].Id]
		}
	}

	return c.JSON(fiber.Map{"success": true, "invoices": rows})
}

type invoiceItemInput struct {
	Description        string  `json:"description"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	Amount             float64 `json:"amount"`
	ItemType           string  `json:"item_type"`
	TaxRate            float64 `json:"tax_rate"`
	TaxAmount          float64 `json:"tax_amount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
}

func (in invoiceItemInput) toModel() models.InvoiceItem {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	itemType := in.ItemType
	if itemType == "" {
		itemType = "service"
	}
	return models.InvoiceItem{
		Description:        in.Description,
		Quantity:           qty,
		UnitPrice:          utils.Dec(in.UnitPrice),
		Amount:             utils.Dec(in.Amount),
		ItemType:           itemType,
		TaxRate:            in.TaxRate,
		TaxAmount:          utils.Dec(in.TaxAmount),
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     utils.Dec(in.DiscountAmount),
	}
}

type createInvoiceInput struct {
	ContactID  uint   `json:"contact_id"`
	JobID      *uint  `json:"job_id"`
	EstimateID *uint  `json:"estimate_id"`

	InvoiceNumber string `json:"invoice_number"`

	SubtotalAmount float64 `json:"subtotal_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`

	DateIssued string  `json:"date_issued"`
	DueDate    *string `json:"due_date"`

	Status              string `json:"status"`
	Notes               string `json:"notes"`
	Terms               string `json:"terms"`
	PaymentInstructions string `json:"payment_instructions"`

	Items []invoiceItemInput `json:"items"`
}

// CreateInvoice inserts an invoice with its line items in one transaction.
// When the invoice originates from an estimate, that estimate is flipped to
// "converted" in the same transaction.
func CreateInvoice(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createInvoiceInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.ContactID == 0 || dto.InvoiceNumber == "" || dto.DateIssued == "" {
		return badRequest(c, "contact_id, invoice_number and date_issued are required")
	}
	if dto.TotalAmount < 0 {
		return badRequest(c, "total_amount cannot be negative")
	}
	status := dto.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	dateIssued, err := parseDate(dto.DateIssued)
	if err != nil {
		return badRequest(c, "Invalid date_issued")
	}
	var dueDate *time.Time
	if dto.DueDate != nil && *dto.DueDate != "" {
		d, err := parseDate(*dto.DueDate)
		if err != nil {
			return badRequest(c, "Invalid due_date")
		}
		dueDate = &d
	}

	invoice := models.Invoice{
		CompanyID:           companyID,
		ContactID:           dto.ContactID,
		JobID:               dto.JobID,
		EstimateID:          dto.EstimateID,
		InvoiceNumber:       dto.InvoiceNumber,
		SubtotalAmount:      utils.Dec(dto.SubtotalAmount),
		TaxAmount:           utils.Dec(dto.TaxAmount),
		DiscountAmount:      utils.Dec(dto.DiscountAmount),
		TotalAmount:         utils.Dec(dto.TotalAmount),
		DateIssued:          dateIssued,
		DueDate:             dueDate,
		Status:              status,
		Notes:               dto.Notes,
		Terms:               dto.Terms,
		PaymentInstructions: dto.PaymentInstructions,
	}
	for _, it := range dto.Items {
		invoice.Items = append(invoice.Items, it.toModel())
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var contact models.Contact
		if err := tx.Where("id = ?", dto.ContactID).
			Scopes(database.ForCompany(companyID)).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errContactNotOwned
			}
			return err
		}
		if dto.JobID != nil {
			var job models.Job
			if err := tx.Where("id = ?", *dto.JobID).
				Scopes(database.ForCompany(companyID)).
				First(&job).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errJobNotOwned
				}
				return err
			}
		}
		if dto.EstimateID != nil {
			var estimate models.Estimate
			if err := tx.Where("id = ?", *dto.EstimateID).
				Scopes(database.ForCompany(companyID)).
				First(&estimate).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEstimateNotOwned
				}
				return err
			}
		}

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		if dto.EstimateID != nil {
			if err := tx.Model(&models.Estimate{}).
				Where("id = ?", *dto.EstimateID).
				Update("status", models.EstimateStatusConverted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errContactNotOwned) || errors.Is(err, errJobNotOwned) || errors.Is(err, errEstimateNotOwned) {
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Invoice created successfully",
		"invoice": invoice,
	})
}

type updateInvoiceInput struct {
	Id uint `json:"id"`

	ContactID     *uint   `json:"contact_id"`
	JobID         *uint   `json:"job_id"`
	InvoiceNumber *string `json:"invoice_number"`

	SubtotalAmount *float64 `json:"subtotal_amount"`
	TaxAmount      *float64 `json:"tax_amount"`
	DiscountAmount *float64 `json:"discount_amount"`
	TotalAmount    *float64 `json:"total_amount"`

	DateIssued *string `json:"date_issued"`
	DueDate    *string `json:"due_date"`

	Status              *string `json:"status"`
	Notes               *string `json:"notes"`
	Terms               *string `json:"terms"`
	PaymentInstructions *string `json:"payment_instructions"`

	Items *[]invoiceItemInput `json:"items"`
}

// UpdateInvoice patches an invoice from the non-nil fields of the body. When
// "items" is present the line items are replaced wholesale.
func UpdateInvoice(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateInvoiceInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Invoice ID is required")
	}
	if dto.Status != nil {
		switch *dto.Status {
		case models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusViewed,
			models.InvoiceStatusPartiallyPaid, models.InvoiceStatusPaid,
			models.InvoiceStatusOverdue, models.InvoiceStatusVoid, models.InvoiceStatusCancelled:
		default:
			return badRequest(c, "Invalid invoice status")
		}
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	delete(updates, "items")

	if dto.SubtotalAmount != nil {
		updates["subtotal_amount"] = utils.Dec(*dto.SubtotalAmount)
	}
	if dto.TaxAmount != nil {
		updates["tax_amount"] = utils.Dec(*dto.TaxAmount)
	}
	if dto.DiscountAmount != nil {
		updates["discount_amount"] = utils.Dec(*dto.DiscountAmount)
	}
	if dto.TotalAmount != nil {
		if *dto.TotalAmount < 0 {
			return badRequest(c, "total_amount cannot be negative")
		}
		updates["total_amount"] = utils.Dec(*dto.TotalAmount)
	}
	if dto.DateIssued != nil {
		d, err := parseDate(*dto.DateIssued)
		if err != nil {
			return badRequest(c, "Invalid date_issued")
		}
		updates["date_issued"] = d
	}
	if dto.DueDate != nil {
		if *dto.DueDate == "" {
			updates["due_date"] = nil
		} else {
			d, err := parseDate(*dto.DueDate)
			if err != nil {
				return badRequest(c, "Invalid due_date")
			}
			updates["due_date"] = d
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Invoice
		if err := tx.Where("id = ?", dto.Id).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvoiceNotFound
			}
			return err
		}
		if dto.ContactID != nil && *dto.ContactID != existing.ContactID {
			var contact models.Contact
			if err := tx.Where("id = ?", *dto.ContactID).
				Scopes(database.ForCompany(companyID)).
				First(&contact).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errContactNotOwned
				}
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Invoice{}).
				Where("id = ?", existing.Id).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if dto.Items != nil {
			if err := tx.Where("invoice_id = ?", existing.Id).
				Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			for _, in := range *dto.Items {
				item := in.toModel()
				item.InvoiceID = existing.Id
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errInvoiceNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, errContactNotOwned):
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Invoice updated successfully"})
}

type deleteInvoiceInput struct {
	Id uint `json:"id"`
}

// DeleteInvoice removes an invoice and its items. Invoices with recorded
// payments cannot be deleted; the payments must be deleted first so their
// removal reconciles invoice state.
func DeleteInvoice(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteInvoiceInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Invoice ID is required")
	}

	var existing models.Invoice
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Invoice not found")
		}
		return dbError(c, err)
	}

	var paymentCount int64
	if err := database.DB.Model(&models.PaymentTransaction{}).
		Where("invoice_id = ?", existing.Id).
		Count(&paymentCount).Error; err != nil {
		return dbError(c, err)
	}
	if paymentCount > 0 {
		return badRequest(c, "Cannot delete invoice with recorded payments")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", existing.Id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Invoice deleted successfully"})
}
