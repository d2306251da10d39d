package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/models"
	"hvacdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errAppointmentNotFound = errors.New("Appointment not found, does not belong to this company, or is no longer in scheduled status")

// appointmentRow is a scheduled job joined with the customer's contact and
// address details the dispatch board renders.
type appointmentRow struct {
	models.Job
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	CustomerState   string `json:"customer_state"`

	EquipmentIDs []uint `json:"equipment_ids" gorm:"-"`
}

func appointmentQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("jobs AS j").
		Select(`j.*, c.name AS customer_name, c.phone AS customer_phone,
			c.address AS customer_address, c.city AS customer_city, c.state AS customer_state`).
		Joins("JOIN contacts c ON c.id = j.customer_id").
		Where("j.company_id = ?", companyID).
		Where("j.status = ?", models.JobStatusScheduled)
}

// GetAppointments lists upcoming appointments: jobs still in "scheduled"
// status, joined with customer address details and the customer's equipment
// ids. Filters: ?id= (single, 404 when absent), ?contact_id=, ?technician=
// (partial match), ?date_range=today|tomorrow|week|month, or
// ?from_date=/?to_date=.
func GetAppointments(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row appointmentRow
		if err := appointmentQuery(database.DB, companyID).Where("j.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Appointment not found")
		}
		return c.JSON(fiber.Map{"success": true, "appointment": row})
	}

	q := appointmentQuery(database.DB, companyID)
	if v := c.Query("contact_id"); v != "" {
		q = q.Where("j.customer_id = ?", v)
	}
	if v := strings.TrimSpace(c.Query("technician")); v != "" {
		q = q.Where("j.technician ILIKE ?", "%"+v+"%")
	}

	switch c.Query("date_range") {
	case "today":
		q = q.Where("DATE(j.scheduled_date) = CURRENT_DATE")
	case "tomorrow":
		q = q.Where("DATE(j.scheduled_date) = CURRENT_DATE + INTERVAL '1 day'")
	case "week":
		q = q.Where("DATE(j.scheduled_date) BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '7 days'")
	case "month":
		q = q.Where("DATE(j.scheduled_date) BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '30 days'")
	default:
		if v := c.Query("from_date"); v != "" {
			from, err := parseDate(v)
			if err != nil {
				return badRequest(c, "Invalid from_date")
			}
			q = q.Where("DATE(j.scheduled_date) >= ?", from)
			if v := c.Query("to_date"); v != "" {
				to, err := parseDate(v)
				if err != nil {
					return badRequest(c, "Invalid to_date")
				}
				q = q.Where("DATE(j.scheduled_date) <= ?", to)
			}
		}
	}

	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	rows := []appointmentRow{}
	if err := q.Order("j.scheduled_date ASC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}

	if len(rows) > 0 {
		contactIDs := make([]uint, 0, len(rows))
		for _, r := range rows {
			contactIDs = append(contactIDs, r.CustomerID)
		}
		var units []models.Equipment
		if err := database.DB.Select("id", "contact_id").
			Where("contact_id IN ?", contactIDs).
			Find(&units).Error; err != nil {
			return dbError(c, err)
		}
		byContact := make(map[uint][]uint, len(contactIDs))
		for _, u := range units {
			byContact[u.ContactID] = append(byContact[u.ContactID], u.Id)
		}
		for i := range rows {
			rows[i].EquipmentIDs = byContact[rows[i].CustomerID]
		}
	}

	return c.JSON(fiber.Map{"success": true, "appointments": rows})
}

type createAppointmentInput struct {
	CustomerID    uint   `json:"customer_id"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	ScheduledDate string `json:"scheduled_date"`
	Technician    string `json:"technician"`
	JobType       string `json:"job_type"`
	EquipmentID   *uint  `json:"equipment_id"`
}

// CreateAppointment schedules a job. When an equipment unit is named, its
// type/brand/model/serial are stamped into the description header so the
// tech sees the unit without another lookup.
func CreateAppointment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createAppointmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.CustomerID == 0 || strings.TrimSpace(dto.Description) == "" || dto.ScheduledDate == "" {
		return badRequest(c, "customer_id, description and scheduled_date are required")
	}
	scheduled, err := parseDate(dto.ScheduledDate)
	if err != nil {
		return badRequest(c, "Invalid scheduled_date")
	}

	var customer models.Contact
	if err := database.DB.Where("id = ?", dto.CustomerID).
		Scopes(database.ForCompany(companyID)).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest(c, errContactNotOwned.Error())
		}
		return dbError(c, err)
	}

	description := strings.TrimSpace(dto.Description)
	if dto.EquipmentID != nil {
		var unit models.Equipment
		if err := database.DB.Where("id = ? AND contact_id = ?", *dto.EquipmentID, customer.Id).
			Scopes(database.ForCompany(companyID)).
			First(&unit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest(c, "Equipment not found or does not belong to this customer")
			}
			return dbError(c, err)
		}
		description = withEquipmentHeader(description, unit)
	}

	priority := dto.Priority
	if priority == "" {
		priority = "medium"
	}
	jobType := dto.JobType
	if jobType == "" {
		jobType = "service"
	}

	job := models.Job{
		CompanyID:     companyID,
		CustomerID:    customer.Id,
		Description:   description,
		Status:        models.JobStatusScheduled,
		Priority:      priority,
		Technician:    dto.Technician,
		JobType:       jobType,
		ScheduledDate: scheduled,
	}
	if err := database.DB.Create(&job).Error; err != nil {
		return dbError(c, err)
	}

	var row appointmentRow
	if err := appointmentQuery(database.DB, companyID).Where("j.id = ?", job.Id).Scan(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Appointment scheduled successfully",
		"appointment": row,
	})
}

type updateAppointmentInput struct {
	Id uint `json:"id"`

	CustomerID    *uint   `json:"customer_id"`
	Description   *string `json:"description"`
	Priority      *string `json:"priority"`
	ScheduledDate *string `json:"scheduled_date"`
	Technician    *string `json:"technician"`
	JobType       *string `json:"job_type"`
	EquipmentID   *uint   `json:"equipment_id"`
}

// UpdateAppointment patches a job that is still scheduled; anything past that
// state is owned by the job endpoints. Naming an equipment unit without a new
// description re-stamps the description header for that unit.
func UpdateAppointment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateAppointmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Appointment ID is required")
	}
	var newDate *time.Time
	if dto.ScheduledDate != nil {
		d, err := parseDate(*dto.ScheduledDate)
		if err != nil {
			return badRequest(c, "Invalid scheduled_date")
		}
		newDate = &d
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Job
		if err := tx.Where("id = ? AND status = ?", dto.Id, models.JobStatusScheduled).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errAppointmentNotFound
			}
			return err
		}

		if dto.CustomerID != nil && *dto.CustomerID != existing.CustomerID {
			var customer models.Contact
			if err := tx.Where("id = ?", *dto.CustomerID).
				Scopes(database.ForCompany(companyID)).
				First(&customer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errContactNotOwned
				}
				return err
			}
		}

		utils.NormalizePtrDTO(&dto)
		updates := utils.UpdatesFromPtrDTO(&dto, nil)
		delete(updates, "equipment_id")
		if newDate != nil {
			updates["scheduled_date"] = *newDate
		}

		if dto.EquipmentID != nil && dto.Description == nil {
			var unit models.Equipment
			if err := tx.Where("id = ?", *dto.EquipmentID).
				Scopes(database.ForCompany(companyID)).
				First(&unit).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEquipmentNotOwned
				}
				return err
			}
			updates["description"] = withEquipmentHeader(existing.Description, unit)
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", existing.Id, models.JobStatusScheduled).
			Updates(updates).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errAppointmentNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, errContactNotOwned), errors.Is(err, errEquipmentNotOwned):
			return badRequest(c, err.Error())
		}
		return dbError(c, err)
	}

	var row appointmentRow
	if err := appointmentQuery(database.DB, companyID).Where("j.id = ?", dto.Id).Scan(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Appointment updated successfully",
		"appointment": row,
	})
}

type deleteAppointmentInput struct {
	Id                 uint   `json:"id"`
	CancellationReason string `json:"cancellation_reason"`
}

// DeleteAppointment cancels a scheduled job rather than deleting the row, so
// the job history survives. An optional reason is appended to the
// description with a timestamp.
func DeleteAppointment(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteAppointmentInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Appointment ID is required")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Job
		if err := tx.Where("id = ? AND status = ?", dto.Id, models.JobStatusScheduled).
			Scopes(database.ForCompany(companyID)).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errAppointmentNotFound
			}
			return err
		}

		updates := map[string]any{"status": models.JobStatusCancelled}
		if reason := strings.TrimSpace(dto.CancellationReason); reason != "" {
			stamp := time.Now().Format(time.RFC3339)
			updates["description"] = fmt.Sprintf("%s\n\n[%s] Appointment cancelled: %s",
				existing.Description, stamp, reason)
		}
		return tx.Model(&existing).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, errAppointmentNotFound) {
			return notFound(c, err.Error())
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Appointment cancelled successfully"})
}

// withEquipmentHeader prefixes a description with the unit's EQUIPMENT/SERIAL
// header, replacing any header a previous edit left behind.
func withEquipmentHeader(description string, unit models.Equipment) string {
	lines := strings.Split(description, "\n")
	start := 0
	hadHeader := false
	for start < len(lines) {
		line := lines[start]
		if strings.HasPrefix(line, "EQUIPMENT:") || strings.HasPrefix(line, "SERIAL:") {
			hadHeader = true
			start++
			continue
		}
		if hadHeader && strings.TrimSpace(line) == "" {
			start++
			continue
		}
		break
	}

	header := fmt.Sprintf("EQUIPMENT: %s - %s %s\nSERIAL: %s",
		unit.EquipmentType, unit.Brand, unit.Model, unit.SerialNumber)
	rest := strings.Join(lines[start:], "\n")
	if strings.TrimSpace(rest) == "" {
		return header
	}
	return header + "\n\n" + rest
}
