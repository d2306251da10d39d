package controllers

import (
	"errors"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetInvoiceSettings returns the company's numbering and document defaults,
// inserting the default row on first read.
func GetInvoiceSettings(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var settings models.InvoiceSettings
	err := database.DB.Where("company_id = ?", companyID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultInvoiceSettings(companyID)
		// FirstOrCreate absorbs a concurrent first read racing the insert.
		err = database.DB.Where("company_id = ?", companyID).FirstOrCreate(&settings).Error
	}
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

type updateInvoiceSettingsInput struct {
	NextInvoiceNumber  *int `json:"next_invoice_number"`
	NextEstimateNumber *int `json:"next_estimate_number"`

	DefaultTaxRate            *float64 `json:"default_tax_rate"`
	DefaultDueDays            *int     `json:"default_due_days"`
	DefaultEstimateExpiryDays *int     `json:"default_estimate_expiry_days"`

	InvoiceNotesTemplate  *string `json:"invoice_notes_template"`
	EstimateNotesTemplate *string `json:"estimate_notes_template"`
	InvoiceTermsTemplate  *string `json:"invoice_terms_template"`
	EstimateTermsTemplate *string `json:"estimate_terms_template"`
	LogoURL               *string `json:"logo_url"`
}

// UpdateInvoiceSettings patches the company's settings row, creating it with
// defaults first when the company has never read or written settings.
func UpdateInvoiceSettings(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateInvoiceSettingsInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.NextInvoiceNumber != nil && *dto.NextInvoiceNumber < 1 {
		return badRequest(c, "next_invoice_number must be positive")
	}
	if dto.NextEstimateNumber != nil && *dto.NextEstimateNumber < 1 {
		return badRequest(c, "next_estimate_number must be positive")
	}
	if dto.DefaultTaxRate != nil && *dto.DefaultTaxRate < 0 {
		return badRequest(c, "default_tax_rate cannot be negative")
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)

	var settings models.InvoiceSettings
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).First(&settings).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			settings = models.DefaultInvoiceSettings(companyID)
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&settings).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("company_id = ?", companyID).First(&settings).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Invoice settings updated successfully",
		"settings": settings,
	})
}
