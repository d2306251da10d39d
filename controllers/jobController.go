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

type jobRow struct {
	models.Job
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

func jobQuery(db *gorm.DB, companyID string) *gorm.DB {
	return db.Table("jobs AS j").
		Select("j.*, c.name AS customer_name, c.phone AS customer_phone").
		Joins("JOIN contacts c ON c.id = j.customer_id").
		Where("j.company_id = ?", companyID)
}

// GetJobs lists jobs joined with customer fields. ?id= fetches one;
// ?status= and ?customer_id= narrow the list.
func GetJobs(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	if idStr := c.Query("id"); idStr != "" {
		var row jobRow
		if err := jobQuery(database.DB, companyID).Where("j.id = ?", idStr).Scan(&row).Error; err != nil {
			return dbError(c, err)
		}
		if row.Id == 0 {
			return notFound(c, "Job not found")
		}
		return c.JSON(fiber.Map{"success": true, "job": row})
	}

	q := jobQuery(database.DB, companyID)
	if v := c.Query("status"); v != "" {
		q = q.Where("j.status = ?", v)
	}
	if v := c.Query("customer_id"); v != "" {
		q = q.Where("j.customer_id = ?", v)
	}

	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	rows := []jobRow{}
	if err := q.Order("j.scheduled_date DESC, j.id DESC").Scan(&rows).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "jobs": rows})
}

type createJobInput struct {
	CustomerID    uint   `json:"customer_id"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	Technician    string `json:"technician"`
	JobType       string `json:"job_type"`
	ScheduledDate string `json:"scheduled_date"`
}

// CreateJob schedules a job for a customer.
func CreateJob(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto createJobInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.CustomerID == 0 || strings.TrimSpace(dto.Description) == "" || dto.ScheduledDate == "" {
		return badRequest(c, "customer_id, description and scheduled_date are required")
	}
	status := dto.Status
	if status == "" {
		status = models.JobStatusScheduled
	}
	if !models.IsValidJobStatus(status) {
		return badRequest(c, "Invalid status. Must be one of: "+strings.Join(models.ValidJobStatuses(), ", "))
	}
	scheduled, err := parseDate(dto.ScheduledDate)
	if err != nil {
		return badRequest(c, "Invalid scheduled_date")
	}
	priority := dto.Priority
	if priority == "" {
		priority = "medium"
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

	job := models.Job{
		CompanyID:     companyID,
		CustomerID:    customer.Id,
		Description:   strings.TrimSpace(dto.Description),
		Status:        status,
		Priority:      priority,
		Technician:    dto.Technician,
		JobType:       dto.JobType,
		ScheduledDate: scheduled,
	}
	if err := database.DB.Create(&job).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job created successfully",
		"job":     job,
	})
}

type updateJobInput struct {
	Id uint `json:"id"`

	CustomerID    *uint   `json:"customer_id"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	Priority      *string `json:"priority"`
	Technician    *string `json:"technician"`
	JobType       *string `json:"job_type"`
	ScheduledDate *string `json:"scheduled_date"`
}

// UpdateJob patches a job from the non-nil fields of the body. Status changes
// here do not touch completion_date; the job-status endpoint owns that rule.
func UpdateJob(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateJobInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Job ID is required")
	}
	if dto.Status != nil && !models.IsValidJobStatus(*dto.Status) {
		return badRequest(c, "Invalid status. Must be one of: "+strings.Join(models.ValidJobStatuses(), ", "))
	}

	var existing models.Job
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Job not found")
		}
		return dbError(c, err)
	}
	if dto.CustomerID != nil && *dto.CustomerID != existing.CustomerID {
		var customer models.Contact
		if err := database.DB.Where("id = ?", *dto.CustomerID).
			Scopes(database.ForCompany(companyID)).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest(c, errContactNotOwned.Error())
			}
			return dbError(c, err)
		}
	}

	utils.NormalizePtrDTO(&dto)
	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if raw, ok := updates["scheduled_date"].(string); ok {
		d, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "Invalid scheduled_date")
		}
		updates["scheduled_date"] = d
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			return dbError(c, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Job updated successfully"})
}

type deleteJobInput struct {
	Id uint `json:"id"`
}

// DeleteJob removes a job. Service records and invoices that pointed at it
// keep their rows with job_id set NULL by the schema.
func DeleteJob(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto deleteJobInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Id == 0 {
		return badRequest(c, "Job ID is required")
	}

	var existing models.Job
	if err := database.DB.Where("id = ?", dto.Id).
		Scopes(database.ForCompany(companyID)).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Job not found")
		}
		return dbError(c, err)
	}

	if err := database.DB.Delete(&existing).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Job deleted successfully"})
}

type updateJobStatusInput struct {
	Id         uint   `json:"id"`
	JobID      uint   `json:"job_id"`
	Status     string `json:"status"`
	Technician string `json:"technician"`
	Notes      string `json:"notes"`
}

// UpdateJobStatus is the field-tech status endpoint: whitelisted status only,
// "completed" stamps completion_date with the current time, and an optional
// note is appended to the job description with a date prefix.
func UpdateJobStatus(c *fiber.Ctx) error {
	companyID := middlewares.CompanyID(c)

	var dto updateJobStatusInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	// Dashboard sends "id", the field-tech app sends "job_id".
	if dto.JobID == 0 {
		dto.JobID = dto.Id
	}
	if dto.JobID == 0 || dto.Status == "" {
		return badRequest(c, "job_id and status are required")
	}
	if !models.IsValidJobStatus(dto.Status) {
		return badRequest(c, "Invalid status. Must be one of: "+strings.Join(models.ValidJobStatuses(), ", "))
	}

	var job models.Job
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", dto.JobID).
			Scopes(database.ForCompany(companyID)).
			First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errJobNotOwned
			}
			return err
		}

		updates := map[string]any{"status": dto.Status}
		if dto.Status == models.JobStatusCompleted {
			updates["completion_date"] = time.Now()
		}
		if tech := strings.TrimSpace(dto.Technician); tech != "" {
			updates["technician"] = tech
		}
		if note := strings.TrimSpace(dto.Notes); note != "" {
			stamp := time.Now().Format("2006-01-02")
			updates["description"] = fmt.Sprintf("%s\n\n[%s] %s", job.Description, stamp, note)
		}

		if err := tx.Model(&job).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", job.Id).First(&job).Error
	})
	if err != nil {
		if errors.Is(err, errJobNotOwned) {
			return notFound(c, "Job not found")
		}
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job status updated successfully",
		"job":     job,
	})
}
