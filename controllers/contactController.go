package controllers

import (
	"errors"
	"strings"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetContacts lists the company's contacts. ?id= fetches one; ?type= filters
// residential/commercial; ?search= matches name, email or phone.
func GetContacts(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var contact models.Contact
		if err := database.DB.Where("id = ?", idStr).
			Scopes(database.ForCompany(companyID)).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "Contact not found")
			}
			return dbError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "contact": contact})
	}

	q := database.DB.Scopes(database.ForCompany(companyID))
	if v := c.Query("type"); v != "" {
		q = q.Where("type = ?", v)
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		like := "%" + v + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	contacts := []models.Contact{}
	if err := q.Order("name").Find(&contacts).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "contacts": contacts})
}

type createContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Type    string `json:"type" validate:"omitempty,oneof=residential commercial"`
	Notes   string `json:"notes"`
}

// CreateContact adds a customer to the company.
func CreateContact(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createContactInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)
	if dto.Type == "" {
		dto.Type = "residential"
	}

	contact := models.Contact{
		CompanyID: companyID,
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address:   dto.Address,
		City:      dto.City,
		State:     dto.State,
		Zip:       dto.Zip,
		Type:      dto.Type,
		Notes:     dto.Notes,
	}
	if err := database.DB.Create(&contact).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Contact created successfully",
		"contact": contact,
	})
}

type updateContactInput struct {
	Id uint `json:"id"`

	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Type    *string `json:"type" validate:"omitempty,oneof=residential commercial"`
	Notes   *string `json:"notes"`
}

// UpdateContact patches a contact from the non-nil fields of the body.
func UpdateContact(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateContactInput
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	if dto.Id == 0 {
		return badRequest(c, "Contact ID is required")
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return badRequest(c, "Contact name cannot be empty")
	}

	var existing models.Contact
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Contact not found")
		}
		return dbError(c, err)
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) > 0 {
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			return dbError(c, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Contact updated successfully"})
}

type deleteContactInput struct {
	Id uint `json:"id"`
}

// DeleteContact removes a contact. Contacts referenced by equipment, jobs,
// estimates or invoices are protected by RESTRICT foreign keys; the violation
// is reported as a 400.
func DeleteContact(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteContactInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Contact ID is required")
	}

	var existing models.Contact
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Contact not found")
		}
		return dbError(c, err)
	}

	if err := database.DB.Delete(&existing).Error; err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return badRequest(c, "Cannot delete contact with existing equipment, jobs, estimates or invoices")
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Contact deleted successfully"})
}
