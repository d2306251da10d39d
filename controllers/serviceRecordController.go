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
	errEquipmentNotOwned = errors.New("Equipment not found or does not belong to this company")
	errJobNotOwned       = errors.New("Job not found or does not belong to this company")
	errRecordNotFound    = errors.New("Service record not found")
)

// serviceRecordRow joins a record with the equipment and customer it was
// performed on, for list/detail rendering.
type serviceRecordRow struct {
	Id              uint      `json:"id"`
	CompanyID       string    `json:"company_id"`
	EquipmentID     uint      `json:"equipment_id"`
	JobID           *uint     `json:"job_id"`
	ServiceDate     time.Time `json:"service_date"`
	ServiceType     string    `json:"service_type"`
	Technician      string    `json:"technician"`
	Findings        string    `json:"findings"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`

	EquipmentType string `json:"equipment_type"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	SerialNumber  string `json:"serial_number"`
	Location      string `json:"location"`
	ContactID     uint   `json:"contact_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

func serviceRecordQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("service_records AS sr").
		Select(`sr.id, sr.company_id, sr.equipment_id, sr.job_id, sr.service_date,
			sr.service_type, sr.technician, sr.findings, sr.recommendations, sr.created_at,
			e.equipment_type, e.brand, e.model, e.serial_number, e.location,
			e.contact_id, c.name AS customer_name, c.phone AS customer_phone`).
		Joins("JOIN equipment e ON e.id = sr.equipment_id").
		Joins("JOIN contacts c ON c.id = e.contact_id").
		Where("sr.company_id = ?", companyID)
}

// GetServiceRecords lists service records joined with equipment and customer
// fields. Supports ?id= for one record and ?equipment_id= / ?job_id= /
// ?contact_id= filters.
func GetServiceRecords(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row serviceRecordRow
		if err := serviceRecordQuery(database.DB, companyID).Where("sr.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Service record not found")
		}
		return c.JSON(fiber.Map{"success": true, "service_record": row})
	}

	q := serviceRecordQuery(database.DB, companyID)
	if v := c.Query("equipment_id"); v != "" {
		q = q.Where("sr.equipment_id = ?", v)
	}
	if v := c.Query("job_id"); v != "" {
		q = q.Where("sr.job_id = ?", v)
	}
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("e.contact_id = ?", v)
	}

	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	rows := []serviceRecordRow{}
	if err := q.Order("sr.service_date DESC, sr.id DESC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "service_records": rows})
}

type createServiceRecordInput struct {
	EquipmentID     uint   `json:"equipment_id"`
	JobID           *uint  `json:"job_id"`
	ServiceDate     string `json:"service_date"`
	ServiceType     string `json:"service_type"`
	Technician      string `json:"technician"`
	Findings        string `json:"findings"`
	Recommendations string `json:"recommendations"`
}

// CreateServiceRecord logs a service visit and cascades: the equipment's
// last_service_date becomes this record's date (last write wins, even if an
// older visit is backfilled), and a linked job is marked completed with its
// completion date set to the service date.
func CreateServiceRecord(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createServiceRecordInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.EquipmentID == 0 || dto.ServiceDate == "" || dto.ServiceType == "" {
		return badRequest(c, "equipment_id, service_date and service_type are required")
	}
	serviceDate, err := parseDate(dto.ServiceDate)
	if err != nil {
		return badRequest(c, "Invalid service_date")
	}

	var record models.ServiceRecord
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var equipment models.Equipment
		if err := tx.Where("id = ?", dto.EquipmentID).
			Scopes(database.ForCompany(companyID)).
			First(&equipment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errEquipmentNotOwned
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

		record = models.ServiceRecord{
			CompanyID:       companyID,
			EquipmentID:     equipment.Id,
			JobID:           dto.JobID,
			ServiceDate:     serviceDate,
			ServiceType:     dto.ServiceType,
			Technician:      dto.Technician,
			Findings:        dto.Findings,
			Recommendations: dto.Recommendations,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Equipment{}).
			Where("id = ?", equipment.Id).
			Update("last_service_date", serviceDate).Error; err != nil {
			return err
		}

		if dto.JobID != nil {
			if err := tx.Model(&models.Job{}).
				Where("id = ?", *dto.JobID).
				Updates(map[string]any{
					"status":          models.JobStatusCompleted,
					"completion_date": serviceDate,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errEquipmentNotOwned) || errors.Is(err, errJobNotOwned) {
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"message":        "Service record created successfully",
		"service_record": record,
	})
}

type updateServiceRecordInput struct {
	Id              uint    `json:"id"`
	EquipmentID     *uint   `json:"equipment_id"`
	JobID           *uint   `json:"job_id"`
	ServiceDate     *string `json:"service_date"`
	ServiceType     *string `json:"service_type"`
	Technician      *string `json:"technician"`
	Findings        *string `json:"findings"`
	Recommendations *string `json:"recommendations"`
}

// UpdateServiceRecord patches a record. Moving it to other equipment pushes
// the effective date onto the new unit and re-derives the old unit's
// last_service_date from its remaining records; a plain date change pushes
// onto the current unit. Job completion never cascades on update.
func UpdateServiceRecord(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateServiceRecordInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Service record ID is required")
	}

	var newDate *time.Time
	if dto.ServiceDate != nil {
		d, err := parseDate(*dto.ServiceDate)
		if err != nil {
			return badRequest(c, "Invalid service_date")
		}
		newDate = &d
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ServiceRecord
		if err := tx.Where("id = ?", dto.Id).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRecordNotFound
			}
			return err
		}

		equipmentChanged := dto.EquipmentID != nil && *dto.EquipmentID != existing.EquipmentID
		if equipmentChanged {
			var equipment models.Equipment
			if err := tx.Where("id = ?", *dto.EquipmentID).
				Scopes(database.ForCompany(companyID)).
				First(&equipment).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEquipmentNotOwned
				}
				return err
			}
		}
		if dto.JobID != nil && (existing.JobID == nil || *dto.JobID != *existing.JobID) {
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

		updates := utils.UpdatesFromPtrDTO(&dto, nil)
		delete(updates, "id")
		if newDate != nil {
			updates["service_date"] = *newDate
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.ServiceRecord{}).
				Where("id = ?", existing.Id).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		effectiveEquipment := existing.EquipmentID
		if equipmentChanged {
			effectiveEquipment = *dto.EquipmentID
		}
		effectiveDate := existing.ServiceDate
		if newDate != nil {
			effectiveDate = *newDate
		}

		dateChanged := newDate != nil && !newDate.Equal(existing.ServiceDate)
		switch {
		case equipmentChanged:
			if err := tx.Model(&models.Equipment{}).
				Where("id = ?", effectiveEquipment).
				Update("last_service_date", effectiveDate).Error; err != nil {
				return err
			}
			return recomputeLastService(tx, existing.EquipmentID)
		case dateChanged:
			return tx.Model(&models.Equipment{}).
				Where("id = ?", effectiveEquipment).
				Update("last_service_date", effectiveDate).Error
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errRecordNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, errEquipmentNotOwned), errors.Is(err, errJobNotOwned):
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Service record updated successfully"})
}

type deleteServiceRecordInput struct {
	Id uint `json:"id"`
}

// DeleteServiceRecord removes a record and re-derives the equipment's
// last_service_date from the remaining records (NULL when none are left).
func DeleteServiceRecord(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteServiceRecordInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Service record ID is required")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ServiceRecord
		if err := tx.Where("id = ?", dto.Id).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRecordNotFound
			}
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return recomputeLastService(tx, existing.EquipmentID)
	})
	if err != nil {
		if errors.Is(err, errRecordNotFound) {
			return notFound(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Service record deleted successfully"})
}

// recomputeLastService re-derives last_service_date from the ledger, going to
// NULL when the equipment has no records left.
func recomputeLastService(tx *gorm.DB, equipmentID uint) error {
	return tx.Exec(`UPDATE equipment
		SET last_service_date = (SELECT MAX(service_date) FROM service_records WHERE equipment_id = ?),
		    updated_at = NOW()
		WHERE id = ?`, equipmentID, equipmentID).Error
}
