package controllers

import (
	"errors"
	"strings"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type equipmentRow struct {
	models.Equipment
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

func equipmentListQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("equipment AS e").
		Select("e.*, c.name AS customer_name, c.phone AS customer_phone").
		Joins("JOIN contacts c ON c.id = e.contact_id").
		Where("e.company_id = ?", companyID)
}

// GetEquipment lists the company's equipment joined with the owning customer.
// ?id= fetches one unit; ?contact_id= narrows to a customer's units.
func GetEquipment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row equipmentRow
		if err := equipmentListQuery(database.DB, companyID).Where("e.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Equipment not found")
		}
		return c.JSON(fiber.Map{"success": true, "equipment": row})
	}

	q := equipmentListQuery(database.DB, companyID)
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("e.contact_id = ?", v)
	}

	rows := []equipmentRow{}
	if err := q.Order("e.id").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "equipment": rows})
}

type createEquipmentInput struct {
	ContactID     uint   `json:"contact_id"`
	EquipmentType string `json:"equipment_type"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	SerialNumber  string `json:"serial_number"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`

	InstallationDate   *string `json:"installation_date"`
	WarrantyExpiration *string `json:"warranty_expiration"`
}

// CreateEquipment registers a unit at a customer's site. last_service_date
// starts NULL and is only ever written by service-record cascades.
func CreateEquipment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createEquipmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.ContactID == 0 || strings.TrimSpace(dto.EquipmentType) == "" {
		return badRequest(c, "contact_id and equipment_type are required")
	}

	var installed, warranty *time.Time
	if dto.InstallationDate != nil && *dto.InstallationDate != "" {
		d, err := parseDate(*dto.InstallationDate)
		if err != nil {
			return badRequest(c, "Invalid installation_date")
		}
		installed = &d
	}
	if dto.WarrantyExpiration != nil && *dto.WarrantyExpiration != "" {
		d, err := parseDate(*dto.WarrantyExpiration)
		if err != nil {
			return badRequest(c, "Invalid warranty_expiration")
		}
		warranty = &d
	}

	var contact models.Contact
	if err := database.DB.Where("id = ?", dto.ContactID).
		Scopes(database.ForCompany(companyID)).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest(c, errContactNotOwned.Error())
		}
		return dbError(c, err)
	}

	equipment := models.Equipment{
		CompanyID:          companyID,
		ContactID:          contact.Id,
		EquipmentType:      strings.TrimSpace(dto.EquipmentType),
		Brand:              dto.Brand,
		Model:              dto.Model,
		SerialNumber:       dto.SerialNumber,
		Location:           dto.Location,
		Notes:              dto.Notes,
		InstallationDate:   installed,
		WarrantyExpiration: warranty,
	}
	if err := database.DB.Create(&equipment).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Equipment created successfully",
		"equipment": equipment,
	})
}

type updateEquipmentInput struct {
	Id uint `json:"id"`

	ContactID     *uint   `json:"contact_id"`
	EquipmentType *string `json:"equipment_type"`
	Brand         *string `json:"brand"`
	Model         *string `json:"model"`
	SerialNumber  *string `json:"serial_number"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`

	InstallationDate   *string `json:"installation_date"`
	WarrantyExpiration *string `json:"warranty_expiration"`
}

// UpdateEquipment patches a unit. last_service_date is deliberately not
// accepted here; it belongs to the service-record cascades.
func UpdateEquipment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateEquipmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Equipment ID is required")
	}

	var existing models.Equipment
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Equipment not found")
		}
		return dbError(c, err)
	}
	if dto.ContactID != nil && *dto.ContactID != existing.ContactID {
		var contact models.Contact
		if err := database.DB.Where("id = ?", *dto.ContactID).
			Scopes(database.ForCompany(companyID)).
			First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest(c, errContactNotOwned.Error())
			}
			return dbError(c, err)
		}
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	for _, key := range []string{"installation_date", "warranty_expiration"} {
		raw, ok := updates[key].(string)
		if !ok {
			continue
		}
		if raw == "" {
			updates[key] = nil
			continue
		}
		d, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "Invalid "+key)
		}
		updates[key] = d
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			return dbError(c, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Equipment updated successfully"})
}

type deleteEquipmentInput struct {
	Id uint `json:"id"`
}

// DeleteEquipment removes a unit. Units with service history are protected by
// the RESTRICT foreign key from service_records.
func DeleteEquipment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteEquipmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Equipment ID is required")
	}

	var existing models.Equipment
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Equipment not found")
		}
		return dbError(c, err)
	}

	if err := database.DB.Delete(&existing).Error; err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return badRequest(c, "Cannot delete equipment with existing service records")
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Equipment deleted successfully"})
}
