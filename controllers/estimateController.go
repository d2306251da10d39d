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

type estimateRow struct {
	models.Estimate
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

func estimateQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("estimates AS e").
		Select("e.*, c.name AS contact_name, c.email AS contact_email, c.phone AS contact_phone").
		Joins("JOIN contacts c ON c.id = e.contact_id").
		Where("e.company_id = ?", companyID)
}

// GetEstimates lists estimates joined with contact display fields. ?id=
// fetches one (with items); contact_id/status narrow the list.
func GetEstimates(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row estimateRow
		if err := estimateQuery(database.DB, companyID).Where("e.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Estimate not found")
		}
		if err := database.DB.Where("estimate_id = ?", row.Id).Order("id").Find(&row.Items).Error; err != nil {
			return dbError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "estimate": row})
	}

	q := estimateQuery(database.DB, companyID)
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("e.contact_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("e.status = ?", v)
	}

	rows := []estimateRow{}
	if err := q.Order("e.date_issued DESC, e.id DESC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "estimates": rows})
}

type createEstimateInput struct {
	ContactID uint  `json:"contact_id"`
	JobID     *uint `json:"job_id"`

	EstimateNumber string `json:"estimate_number"`

	SubtotalAmount float64 `json:"subtotal_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`

	DateIssued  string  `json:"date_issued"`
	DateExpires *string `json:"date_expires"`

	Status string `json:"status"`
	Notes  string `json:"notes"`
	Terms  string `json:"terms"`

	Items []invoiceItemInput `json:"items"`
}

// CreateEstimate inserts an estimate with its line items in one transaction.
func CreateEstimate(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createEstimateInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.ContactID == 0 || dto.EstimateNumber == "" || dto.DateIssued == "" {
		return badRequest(c, "contact_id, estimate_number and date_issued are required")
	}
	status := dto.Status
	if status == "" {
		status = models.EstimateStatusDraft
	}
	dateIssued, err := parseDate(dto.DateIssued)
	if err != nil {
		return badRequest(c, "Invalid date_issued")
	}
	var dateExpires *time.Time
	if dto.DateExpires != nil && *dto.DateExpires != "" {
		d, err := parseDate(*dto.DateExpires)
		if err != nil {
			return badRequest(c, "Invalid date_expires")
		}
		dateExpires = &d
	}

	estimate := models.Estimate{
		CompanyID:      companyID,
		ContactID:      dto.ContactID,
		JobID:          dto.JobID,
		EstimateNumber: dto.EstimateNumber,
		SubtotalAmount: utils.Dec(dto.SubtotalAmount),
		TaxAmount:      utils.Dec(dto.TaxAmount),
		DiscountAmount: utils.Dec(dto.DiscountAmount),
		TotalAmount:    utils.Dec(dto.TotalAmount),
		DateIssued:     dateIssued,
		DateExpires:    dateExpires,
		Status:         status,
		Notes:          dto.Notes,
		Terms:          dto.Terms,
	}
	for _, in := range dto.Items {
		item := in.toModel()
		estimate.Items = append(estimate.Items, models.EstimateItem{
			Description:        item.Description,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			Amount:             item.Amount,
			ItemType:           item.ItemType,
			TaxRate:            item.TaxRate,
			TaxAmount:          item.TaxAmount,
			DiscountPercentage: item.DiscountPercentage,
			DiscountAmount:     item.DiscountAmount,
		})
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
		return tx.Create(&estimate).Error
	})
	if err != nil {
		if errors.Is(err, errContactNotOwned) {
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Estimate created successfully",
		"estimate": estimate,
	})
}

type updateEstimateInput struct {
	Id uint `json:"id"`

	ContactID      *uint   `json:"contact_id"`
	JobID          *uint   `json:"job_id"`
	EstimateNumber *string `json:"estimate_number"`

	SubtotalAmount *float64 `json:"subtotal_amount"`
	TaxAmount      *float64 `json:"tax_amount"`
	DiscountAmount *float64 `json:"discount_amount"`
	TotalAmount    *float64 `json:"total_amount"`

	DateIssued  *string `json:"date_issued"`
	DateExpires *string `json:"date_expires"`

	Status *string `json:"status"`
	Notes  *string `json:"notes"`
	Terms  *string `json:"terms"`

	Items *[]invoiceItemInput `json:"items"`
}

// UpdateEstimate patches an estimate from the non-nil fields of the body.
// Like invoices, a present "items" array replaces the line items.
func UpdateEstimate(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateEstimateInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Estimate ID is required")
	}
	if dto.Status != nil {
		switch *dto.Status {
		case models.EstimateStatusDraft, models.EstimateStatusSent, models.EstimateStatusViewed,
			models.EstimateStatusApproved, models.EstimateStatusRejected, models.EstimateStatusExpired,
			models.EstimateStatusConverted, models.EstimateStatusCancelled:
		default:
			return badRequest(c, "Invalid estimate status")
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
		updates["total_amount"] = utils.Dec(*dto.TotalAmount)
	}
	if dto.DateIssued != nil {
		d, err := parseDate(*dto.DateIssued)
		if err != nil {
			return badRequest(c, "Invalid date_issued")
		}
		updates["date_issued"] = d
	}
	if dto.DateExpires != nil {
		if *dto.DateExpires == "" {
			updates["date_expires"] = nil
		} else {
			d, err := parseDate(*dto.DateExpires)
			if err != nil {
				return badRequest(c, "Invalid date_expires")
			}
			updates["date_expires"] = d
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Estimate
		if err := tx.Where("id = ?", dto.Id).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errEstimateNotOwned
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
			if err := tx.Model(&models.Estimate{}).
				Where("id = ?", existing.Id).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if dto.Items != nil {
			if err := tx.Where("estimate_id = ?", existing.Id).
				Delete(&models.EstimateItem{}).Error; err != nil {
				return err
			}
			for _, in := range *dto.Items {
				src := in.toModel()
				item := models.EstimateItem{
					EstimateID:         existing.Id,
					Description:        src.Description,
					Quantity:           src.Quantity,
					UnitPrice:          src.UnitPrice,
					Amount:             src.Amount,
					ItemType:           src.ItemType,
					TaxRate:            src.TaxRate,
					TaxAmount:          src.TaxAmount,
					DiscountPercentage: src.DiscountPercentage,
					DiscountAmount:     src.DiscountAmount,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errEstimateNotOwned):
			return notFound(c, "Estimate not found")
		case errors.Is(err, errContactNotOwned):
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Estimate updated successfully"})
}

type deleteEstimateInput struct {
	Id uint `json:"id"`
}

// DeleteEstimate removes an estimate and its items. Converted estimates stay
// deletable; invoices keep their own copy of the line items.
func DeleteEstimate(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteEstimateInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Estimate ID is required")
	}

	var existing models.Estimate
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Estimate not found")
		}
		return dbError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("estimate_id = ?", existing.Id).Delete(&models.EstimateItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Estimate deleted successfully"})
}
